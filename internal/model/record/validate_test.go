package record_test

import (
	"errors"
	"testing"

	"github.com/sibyl-lab/sibyl-sft/internal/model/record"
)

const wellFormedLine = `{"messages":[{"role":"system","content":"S"},{"role":"user","content":"U"},{"role":"assistant","content":"{\"thinking\":\"go\"}"}]}`

func TestParseWellFormed(t *testing.T) {
	rec, err := record.Parse(wellFormedLine)
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}

	roles := rec.Roles()
	want := []record.Role{record.RoleSystem, record.RoleUser, record.RoleAssistant}
	if len(roles) != len(want) {
		t.Fatalf("unexpected role count: got %d want %d", len(roles), len(want))
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Fatalf("role %d: got %s want %s", i, roles[i], want[i])
		}
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := record.Parse(`{"messages": [`)
	if err == nil {
		t.Fatal("expected error for truncated line")
	}
	var malformed *record.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRecordError, got %T: %v", err, err)
	}
}

func TestParseSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"not an object":     `[1,2,3]`,
		"missing messages":  `{"other": true}`,
		"messages not list": `{"messages": "nope"}`,
		"too few messages":  `{"messages":[{"role":"system","content":"S"}]}`,
		"unknown role":      `{"messages":[{"role":"narrator","content":"X"},{"role":"user","content":"U"}]}`,
	}

	for name, line := range cases {
		_, err := record.Parse(line)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		var schemaErr *record.SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("%s: expected SchemaError, got %T: %v", name, err, err)
		}
	}
}

func TestValidateForTraining(t *testing.T) {
	rec, err := record.Parse(wellFormedLine)
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if err := record.ValidateForTraining(rec); err != nil {
		t.Fatalf("ValidateForTraining err: %v", err)
	}
}

func TestValidateForTrainingMissingAssistant(t *testing.T) {
	rec, err := record.Parse(`{"messages":[{"role":"system","content":"S"},{"role":"user","content":"U"}]}`)
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	err = record.ValidateForTraining(rec)
	if err == nil {
		t.Fatal("expected error for missing assistant role")
	}
	var schemaErr *record.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %T", err)
	}
}

func TestValidateForTrainingDuplicateRole(t *testing.T) {
	rec, err := record.Parse(`{"messages":[{"role":"user","content":"A"},{"role":"user","content":"B"},{"role":"system","content":"S"},{"role":"assistant","content":"R"}]}`)
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if record.ValidateForTraining(rec) == nil {
		t.Fatal("expected error for duplicated user role")
	}
}

func TestAssistantDecision(t *testing.T) {
	rec, err := record.Parse(wellFormedLine)
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}

	decision, ok := record.AssistantDecision(rec)
	if !ok {
		t.Fatal("expected parseable assistant decision")
	}
	if decision.Thinking != "go" {
		t.Fatalf("unexpected thinking: %q", decision.Thinking)
	}
}

func TestAssistantDecisionAdvisoryOnly(t *testing.T) {
	rec, err := record.Parse(`{"messages":[{"role":"system","content":"S"},{"role":"user","content":"U"},{"role":"assistant","content":"free text, not JSON"}]}`)
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}

	// The record stays valid, the probe just reports failure.
	if _, ok := record.AssistantDecision(rec); ok {
		t.Fatal("expected decision probe to fail on free text")
	}
	if err := record.ValidateForTraining(rec); err != nil {
		t.Fatalf("free-text assistant content must not fail validation: %v", err)
	}
}

func TestInferenceMessagesExcludeAssistant(t *testing.T) {
	rec, err := record.Parse(wellFormedLine)
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}

	msgs := rec.InferenceMessages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 inference messages, got %d", len(msgs))
	}
	if msgs[0].Role != record.RoleSystem || msgs[1].Role != record.RoleUser {
		t.Fatalf("unexpected inference roles: %v", []record.Role{msgs[0].Role, msgs[1].Role})
	}
}
