package infer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sibyl-lab/sibyl-sft/internal/model/record"
)

// Status classifies a model response against the decision schema.
type Status string

const (
	// StatusValid: the response parsed as a JSON object with at least one
	// recognized decision field. Individual absent fields are reported, not
	// treated as failure.
	StatusValid Status = "valid"
	// StatusInvalidJSON: the response did not parse, the expected failure
	// mode when generation is cut off by the token budget.
	StatusInvalidJSON Status = "invalid_json"
	// StatusMissingFields: a JSON object, but none of the decision fields
	// are present.
	StatusMissingFields Status = "missing_fields"
)

// NotPresent marks an absent decision field in reports; fields are never
// silently omitted.
const NotPresent = "not present"

const thinkingPreviewLen = 100

// ClassifiedResponse is the always-returned result of classifying raw model
// output. Parsed is nil unless Status is StatusValid.
type ClassifiedResponse struct {
	Raw    string
	Parsed *record.Decision
	Status Status
}

// Classify parses raw model output against the decision schema. It never
// returns an error: every outcome, including truncated or garbage output, is
// a classification.
func Classify(raw string) ClassifiedResponse {
	trimmed := strings.TrimSpace(raw)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil || probe == nil {
		return ClassifiedResponse{Raw: raw, Status: StatusInvalidJSON}
	}

	_, hasThinking := probe["thinking"]
	_, hasFirst := probe["firstAction"]
	_, hasSecond := probe["secondAction"]
	if !hasThinking && !hasFirst && !hasSecond {
		return ClassifiedResponse{Raw: raw, Status: StatusMissingFields}
	}

	var decision record.Decision
	if err := json.Unmarshal([]byte(trimmed), &decision); err != nil {
		return ClassifiedResponse{Raw: raw, Status: StatusInvalidJSON}
	}

	return ClassifiedResponse{Raw: raw, Parsed: &decision, Status: StatusValid}
}

// ThinkingPreview returns the leading characters of the reasoning field, or
// the not-present marker.
func (c ClassifiedResponse) ThinkingPreview() string {
	if c.Parsed == nil || c.Parsed.Thinking == "" {
		return NotPresent
	}
	runes := []rune(c.Parsed.Thinking)
	if len(runes) > thinkingPreviewLen {
		return string(runes[:thinkingPreviewLen])
	}
	return c.Parsed.Thinking
}

// FirstActionType returns the declared type of the first action, or the
// not-present marker.
func (c ClassifiedResponse) FirstActionType() string {
	return actionType(c.Parsed, func(d *record.Decision) *record.Action { return d.FirstAction })
}

// SecondActionType returns the declared type of the second action, or the
// not-present marker.
func (c ClassifiedResponse) SecondActionType() string {
	return actionType(c.Parsed, func(d *record.Decision) *record.Action { return d.SecondAction })
}

func actionType(d *record.Decision, pick func(*record.Decision) *record.Action) string {
	if d == nil {
		return NotPresent
	}
	action := pick(d)
	if action == nil || action.Type == "" {
		return NotPresent
	}
	return action.Type
}

// Report renders the human-readable classification summary printed by the
// CLI harness.
func (c ClassifiedResponse) Report() string {
	switch c.Status {
	case StatusValid:
		return fmt.Sprintf("valid JSON output\n  thinking:  %s\n  action 1:  %s\n  action 2:  %s",
			c.ThinkingPreview(), c.FirstActionType(), c.SecondActionType())
	case StatusMissingFields:
		return "warning: JSON output carries none of the expected decision fields"
	default:
		return "warning: output is not valid JSON"
	}
}
