// Package domain defines the core entities for the irrigo planner.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ChunkRecord: one analyzable unit of source text
//   - ChunkGrid: the complete 10x6 policy-area x dimension matrix
//   - Question: one unit of questionnaire content
//   - SchemaValue: an expected-elements declaration (absent, list or map)
//   - Task: the atomic, immutable unit of planned work
//   - ExecutionPlan: the complete, ordered, content-addressed result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
