package domain

// Pattern is one analysis pattern attached to a question. Patterns are
// scoped per policy area: the planner includes a pattern in a task
// only when its PolicyArea tag equals the routed area.
type Pattern struct {
	// PatternID identifies the pattern. Duplicate ids are legitimate
	// and preserved by the scoping filter.
	PatternID string

	// PolicyArea scopes the pattern to one policy area. An empty tag
	// is an upstream data defect, not a legitimate non-match, and the
	// scoping filter rejects it as a hard error.
	PolicyArea string

	// Expression is the pattern body. Opaque to the planner.
	Expression string

	// Description is optional human-readable context.
	Description string
}

// HasPolicyArea reports whether the pattern carries an area tag.
func (p Pattern) HasPolicyArea() bool { return p.PolicyArea != "" }

// Question is one unit of questionnaire content, produced by the
// external questionnaire loader and treated as read-only input.
type Question struct {
	// QuestionID is the display identifier (e.g. "Q-042").
	QuestionID string

	// QuestionGlobal is the globally unique ordinal in [0, 999]. It
	// seeds the derived task id.
	QuestionGlobal int

	// PolicyArea and Dimension are the routing keys binding the
	// question to its grid cell.
	PolicyArea string
	Dimension  string

	// Patterns is the ordered pattern sequence, prior to area scoping.
	Patterns []Pattern

	// ExpectedElements declares the structured elements the question
	// expects its chunk to provide.
	ExpectedElements SchemaValue

	// SignalRequirements is the set of signal-type strings the
	// question needs resolved before a task can be constructed.
	SignalRequirements []string
}

// ChunkRoutingResult is the validated binding of one question to one
// chunk record. It is created per question during routing and
// discarded after task construction.
type ChunkRoutingResult struct {
	// Chunk is the resolved record.
	Chunk *ChunkRecord

	// QuestionID, PolicyArea and Dimension are the routing keys the
	// binding was resolved under.
	QuestionID string
	PolicyArea string
	Dimension  string

	// Text is the routed chunk's text.
	Text string

	// ExpectedElements is the chunk's declaration, carried for the
	// compatibility check.
	ExpectedElements SchemaValue

	// StartPos and EndPos span the chunk's document position.
	StartPos int
	EndPos   int
}
