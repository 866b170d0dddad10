package domain

// Signal is one resolved contextual item, supplied exclusively by the
// external signal registry.
type Signal struct {
	// Type is the signal-type string (e.g. "temporal", "indicator").
	Type string

	// Content is the resolved payload. Opaque to the planner.
	Content any
}
