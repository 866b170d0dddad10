package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates a requested entity does not exist. Used by
// persistence collaborators; core routing misses use ErrRouting.
var ErrNotFound = errors.New("not found")

// Sentinel errors for the planner's failure taxonomy.
// Structured error types below wrap exactly one of these so callers
// can classify failures with errors.Is and still read rich context.
var (
	// ErrStructure indicates a malformed or incomplete chunk grid.
	ErrStructure = errors.New("chunk grid structure violation")

	// ErrRouting indicates no chunk exists for a requested key, or a
	// routed chunk's own identifiers disagree with the request.
	ErrRouting = errors.New("question routing failed")

	// ErrSchemaCompatibility indicates a question's expectations and a
	// chunk's capabilities are not type- or threshold-compatible.
	ErrSchemaCompatibility = errors.New("schema incompatibility")

	// ErrSignalResolution indicates missing required signals or a
	// malformed signal registry response.
	ErrSignalResolution = errors.New("signal resolution failed")

	// ErrConstruction indicates a Task or ExecutionPlan invariant was
	// violated at creation time.
	ErrConstruction = errors.New("construction invariant violated")

	// ErrIntegrity indicates a computed digest failed its own format
	// self-check.
	ErrIntegrity = errors.New("integrity check failed")
)

// Violation is one precise diagnostic produced by a grid validation
// check: which record, which check, what was expected and what was
// found, plus a remediation hint where one exists.
type Violation struct {
	// ChunkIndex is the position of the offending record in the input
	// collection, or -1 for document-level violations.
	ChunkIndex int

	// ChunkID identifies the offending record where known.
	ChunkID string

	// Check names the validation stage that failed.
	Check string

	// Expected describes the expected state.
	Expected string

	// Actual describes the observed state.
	Actual string

	// Hint suggests a remediation where one is known.
	Hint string
}

// String renders the violation as a single diagnostic line.
func (v Violation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", v.Check)
	if v.ChunkIndex >= 0 {
		fmt.Fprintf(&b, " chunk #%d", v.ChunkIndex)
	}
	if v.ChunkID != "" {
		fmt.Fprintf(&b, " (%s)", v.ChunkID)
	}
	fmt.Fprintf(&b, ": expected %s, got %s", v.Expected, v.Actual)
	if v.Hint != "" {
		fmt.Fprintf(&b, " — %s", v.Hint)
	}
	return b.String()
}

// StructureError reports every grid validation failure found in one
// pass over the input batch. It is never raised for the first defect
// alone: the builder collects all violations so a caller sees the
// complete defect set at once.
type StructureError struct {
	// Violations holds every failed check, in pipeline order.
	Violations []Violation
}

// Error renders all violations, one per line.
func (e *StructureError) Error() string {
	lines := make([]string, 0, len(e.Violations)+1)
	lines = append(lines, fmt.Sprintf("chunk grid validation failed with %d violation(s):", len(e.Violations)))
	for _, v := range e.Violations {
		lines = append(lines, "  "+v.String())
	}
	return strings.Join(lines, "\n")
}

// Unwrap classifies the error under ErrStructure.
func (e *StructureError) Unwrap() error { return ErrStructure }

// RoutingError reports a failed question-to-chunk binding.
type RoutingError struct {
	// QuestionID is the question being routed, where known.
	QuestionID string

	// PolicyArea and Dimension are the requested routing keys.
	PolicyArea string
	Dimension  string

	// Reason describes the failure.
	Reason string
}

func (e *RoutingError) Error() string {
	if e.QuestionID != "" {
		return fmt.Sprintf("routing %s to (%s, %s): %s", e.QuestionID, e.PolicyArea, e.Dimension, e.Reason)
	}
	return fmt.Sprintf("routing to (%s, %s): %s", e.PolicyArea, e.Dimension, e.Reason)
}

// Unwrap classifies the error under ErrRouting.
func (e *RoutingError) Unwrap() error { return ErrRouting }

// SchemaCompatibilityError reports a structural or semantic mismatch
// between a question's expected elements and a chunk's declared ones.
type SchemaCompatibilityError struct {
	QuestionID string
	ChunkID    string

	// Element names the offending paired element, where applicable.
	Element string

	// Reason describes the mismatch, including expected vs actual
	// values for threshold violations.
	Reason string
}

func (e *SchemaCompatibilityError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("schema incompatibility between question %s and chunk %s at element %q: %s",
			e.QuestionID, e.ChunkID, e.Element, e.Reason)
	}
	return fmt.Sprintf("schema incompatibility between question %s and chunk %s: %s",
		e.QuestionID, e.ChunkID, e.Reason)
}

// Unwrap classifies the error under ErrSchemaCompatibility.
func (e *SchemaCompatibilityError) Unwrap() error { return ErrSchemaCompatibility }

// SignalResolutionError reports missing required signals or a
// malformed registry response.
type SignalResolutionError struct {
	QuestionID string
	ChunkID    string

	// Missing lists the required signal types absent from the registry
	// response, sorted. Empty when the response itself was malformed.
	Missing []string

	// Reason describes contract failures (nil or malformed response).
	Reason string
}

func (e *SignalResolutionError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("signal resolution for question %s on chunk %s: missing required signal type(s): %s",
			e.QuestionID, e.ChunkID, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("signal resolution for question %s on chunk %s: %s", e.QuestionID, e.ChunkID, e.Reason)
}

// Unwrap classifies the error under ErrSignalResolution.
func (e *SignalResolutionError) Unwrap() error { return ErrSignalResolution }

// ConstructionError reports a violated construction-time invariant on
// a Task or ExecutionPlan, or defective upstream data discovered while
// assembling one.
type ConstructionError struct {
	// Kind is the value object being constructed ("task", "plan",
	// "pattern", ...).
	Kind string

	// Field names the offending field, where applicable.
	Field string

	// Reason describes the violation.
	Reason string
}

func (e *ConstructionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("constructing %s: field %s: %s", e.Kind, e.Field, e.Reason)
	}
	return fmt.Sprintf("constructing %s: %s", e.Kind, e.Reason)
}

// Unwrap classifies the error under ErrConstruction.
func (e *ConstructionError) Unwrap() error { return ErrConstruction }

// IntegrityError reports a digest that failed its own format
// self-check. This guards against a tampered or misconfigured hash
// implementation, not against hash collisions.
type IntegrityError struct {
	Algorithm string
	Digest    string
	Reason    string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity digest (%s) %q: %s", e.Algorithm, e.Digest, e.Reason)
}

// Unwrap classifies the error under ErrIntegrity.
func (e *IntegrityError) Unwrap() error { return ErrIntegrity }
