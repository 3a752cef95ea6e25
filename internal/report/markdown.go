// Package report formats benchmark rows into a Markdown comparison
// table and renders it for the terminal.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"snipbench/internal/counters"
	"snipbench/internal/harness"
)

var printer = message.NewPrinter(language.English)

// elapsedUnit picks the coarsest unit in which the smallest elapsed
// value still has at least two digits.
func elapsedUnit(minNs int64) (string, int64) {
	for _, u := range []struct {
		name   string
		factor int64
	}{
		{"milliseconds", 1_000_000},
		{"microseconds", 1_000},
	} {
		if minNs > u.factor*10 {
			return u.name, u.factor
		}
	}
	return "nanoseconds", 1
}

// Markdown renders rows as a Markdown table: a code column, the elapsed
// column auto-scaled to a common unit, and one column per requested
// measurement kind.
func Markdown(rows []harness.Row, kindIDs []string) (string, error) {
	titles, err := counters.Titles(kindIDs)
	if err != nil {
		return "", err
	}

	minNs := int64(math.MaxInt64)
	for _, r := range rows {
		if r.ElapsedNs < minNs {
			minNs = r.ElapsedNs
		}
	}
	unit, factor := elapsedUnit(minNs)

	headers := append([]string{"Code", "Elapsed " + unit}, titles...)

	var b strings.Builder
	writeRow(&b, headers)
	separator := make([]string, len(headers))
	separator[0] = "---"
	for i := 1; i < len(separator); i++ {
		separator[i] = "---:"
	}
	writeRow(&b, separator)

	for _, r := range rows {
		cells := []string{
			"`" + r.Label + "`",
			printer.Sprintf("%d", scaleElapsed(r.ElapsedNs, factor)),
		}
		for _, v := range r.Measurements {
			cells = append(cells, formatValue(v))
		}
		writeRow(&b, cells)
	}
	return b.String(), nil
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func scaleElapsed(ns, factor int64) int64 {
	return int64(math.Round(float64(ns) / float64(factor)))
}

// formatValue prints counts as thousands-separated integers and ratio
// kinds (already rounded to one decimal) with that decimal; values from
// platforms without counters come out as n/a.
func formatValue(v counters.Value) string {
	if !v.Valid {
		return "n/a"
	}
	if v.Float64 == math.Trunc(v.Float64) {
		return printer.Sprintf("%d", int64(v.Float64))
	}
	return fmt.Sprintf("%.1f", v.Float64)
}

// Render draws the Markdown table for the terminal via glamour; plain
// Markdown comes back unchanged when the terminal cannot take styling
// or rendering fails.
func Render(markdown string) string {
	if termenv.ColorProfile() == termenv.Ascii {
		return markdown
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return markdown
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
