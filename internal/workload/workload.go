// Package workload provides the built-in snippets the CLI can compare.
// All workloads of one comparison share a single environment, so a
// seeding workload can leave data for the ones that follow, the way
// notebook cells do.
package workload

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"snipbench/internal/snippet"
)

// ErrUnknownWorkload is returned for names absent from the registry.
var ErrUnknownWorkload = errors.New("unknown workload")

const dataSize = 1 << 16

type builder func(env snippet.Env) error

var registry = map[string]builder{
	"noop": func(snippet.Env) error { return nil },

	// seed-data fills the shared environment with a deterministic
	// pseudo-random slice the other workloads operate on.
	"seed-data": func(env snippet.Env) error {
		rng := rand.New(rand.NewSource(42))
		data := make([]int, dataSize)
		for i := range data {
			data[i] = rng.Intn(256) - 128
		}
		env["data"] = data
		return nil
	},

	"sum": func(env snippet.Env) error {
		data, err := dataOf(env)
		if err != nil {
			return err
		}
		total := 0
		for _, v := range data {
			total += v
		}
		env["total"] = total
		return nil
	},

	// sum-positive takes a data-dependent branch per element; on the
	// unsorted seed data it demonstrates branch mispredictions.
	"sum-positive": func(env snippet.Env) error {
		data, err := dataOf(env)
		if err != nil {
			return err
		}
		total := 0
		for _, v := range data {
			if v > 0 {
				total += v
			}
		}
		env["total"] = total
		return nil
	},

	"count-map": func(env snippet.Env) error {
		data, err := dataOf(env)
		if err != nil {
			return err
		}
		counts := make(map[int]int)
		for _, v := range data {
			counts[v]++
		}
		env["counts"] = counts
		return nil
	},

	"append-grow": func(env snippet.Env) error {
		data, err := dataOf(env)
		if err != nil {
			return err
		}
		var out []int
		for _, v := range data {
			out = append(out, v*2)
		}
		env["doubled"] = out
		return nil
	},
}

func dataOf(env snippet.Env) ([]int, error) {
	data, ok := env["data"].([]int)
	if !ok {
		return nil, errors.New("no seeded data in environment; run seed-data first")
	}
	return data, nil
}

// Default is the standard comparison sequence: seeding first, then the
// compute workloads that consume the seeded data.
func Default() []string {
	return []string{"seed-data", "sum", "sum-positive", "count-map", "append-grow"}
}

// Names lists all registered workloads, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build resolves workload names into snippets over one fresh shared
// environment, in request order.
func Build(names []string) ([]snippet.Snippet, error) {
	env := snippet.Env{}
	snippets := make([]snippet.Snippet, 0, len(names))
	for _, name := range names {
		body, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWorkload, name)
		}
		snippets = append(snippets, snippet.New(name, env, body))
	}
	return snippets, nil
}
