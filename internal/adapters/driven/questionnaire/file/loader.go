// Package file provides the YAML questionnaire loader.
package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/core/ports/driven"
	"github.com/praxis-labs/irrigo/internal/logger"
)

// Ensure Loader implements the driven port.
var _ driven.QuestionnaireLoader = (*Loader)(nil)

// patternYAML is the wire form of one pattern.
type patternYAML struct {
	PatternID   string `yaml:"pattern_id"`
	PolicyArea  string `yaml:"policy_area_id"`
	Expression  string `yaml:"expression"`
	Description string `yaml:"description"`
}

// questionYAML is the wire form of one question. Expected elements are
// decoded untyped and classified afterwards, so malformed declarations
// survive loading and fail later with a precise schema diagnostic.
type questionYAML struct {
	QuestionID         string        `yaml:"question_id"`
	QuestionGlobal     int           `yaml:"question_global"`
	PolicyArea         string        `yaml:"policy_area_id"`
	Dimension          string        `yaml:"dimension_id"`
	Patterns           []patternYAML `yaml:"patterns"`
	ExpectedElements   any           `yaml:"expected_elements"`
	SignalRequirements []string      `yaml:"signal_requirements"`
}

// questionnaireYAML is the document root.
type questionnaireYAML struct {
	Questions []questionYAML `yaml:"questions"`
}

// Loader reads a questionnaire from a YAML file.
type Loader struct {
	path string
}

// NewLoader creates a loader for the given questionnaire file.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses the questionnaire and returns its questions in file
// order. Routing and schema validation are the core's job; the loader
// only rejects files it cannot parse at all.
func (l *Loader) Load(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading questionnaire %s: %w", l.path, err)
	}

	var doc questionnaireYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing questionnaire %s: %w", l.path, err)
	}

	questions := make([]domain.Question, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		patterns := make([]domain.Pattern, 0, len(q.Patterns))
		for _, p := range q.Patterns {
			patterns = append(patterns, domain.Pattern{
				PatternID:   p.PatternID,
				PolicyArea:  p.PolicyArea,
				Expression:  p.Expression,
				Description: p.Description,
			})
		}
		questions = append(questions, domain.Question{
			QuestionID:         q.QuestionID,
			QuestionGlobal:     q.QuestionGlobal,
			PolicyArea:         q.PolicyArea,
			Dimension:          q.Dimension,
			Patterns:           patterns,
			ExpectedElements:   domain.ClassifySchema(normalizeYAML(q.ExpectedElements)),
			SignalRequirements: q.SignalRequirements,
		})
	}

	logger.Debug("questionnaire %s: %d question(s) loaded", l.path, len(questions))
	return questions, nil
}

// normalizeYAML converts yaml.v3 decoded values into the JSON-style
// shapes the schema classifier expects. yaml.v3 already produces
// map[string]any for string-keyed mappings; any other mapping key type
// is passed through untouched and classified as invalid.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeYAML(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}
