package snippet

// Env is the variable environment a snippet runs in. All snippets of one
// comparison share a single Env, so later snippets observe state left by
// earlier ones, matching notebook semantics.
type Env map[string]any

// Snippet is an executable unit of code plus the environment it runs in.
// The harness treats it as opaque: it only needs to execute the body,
// possibly many times, with side effects landing in Env.
type Snippet struct {
	// Label is the display text for result rows, typically the source
	// line the snippet was built from.
	Label string

	// Body executes the snippet once. An error aborts the whole
	// comparison; the harness never retries or swallows it.
	Body func(env Env) error

	// Env the body runs against. Callers usually share one Env across
	// a batch of snippets.
	Env Env
}

// Run executes the snippet body once against its environment.
func (s Snippet) Run() error {
	return s.Body(s.Env)
}

// New builds a snippet over the given environment.
func New(label string, env Env, body func(env Env) error) Snippet {
	return Snippet{Label: label, Body: body, Env: env}
}
