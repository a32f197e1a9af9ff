package record

import (
	"encoding/json"
	"fmt"
)

// MalformedRecordError reports a line that does not parse as JSON at all.
type MalformedRecordError struct {
	Err error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: %v", e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// SchemaError reports a record that parses but violates the expected
// structure.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "record schema violation: " + e.Reason
}

// Parse decodes one line of a dataset file into a ChatRecord. Validation is
// structural only: message content is never interpreted beyond its role tag.
func Parse(text string) (ChatRecord, error) {
	data := []byte(text)
	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		return ChatRecord{}, &MalformedRecordError{Err: err}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ChatRecord{}, &SchemaError{Reason: "record is not a JSON object"}
	}

	raw, ok := fields["messages"]
	if !ok {
		return ChatRecord{}, &SchemaError{Reason: "missing messages field"}
	}

	var messages []Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return ChatRecord{}, &SchemaError{Reason: "messages is not a message sequence"}
	}
	if len(messages) < 2 {
		return ChatRecord{}, &SchemaError{Reason: fmt.Sprintf("record has %d messages, need at least 2", len(messages))}
	}
	for i, m := range messages {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return ChatRecord{}, &SchemaError{Reason: fmt.Sprintf("message %d has unknown role %q", i, m.Role)}
		}
	}

	return ChatRecord{Messages: messages}, nil
}

// ValidateForTraining checks the stricter training-context invariant: the
// record carries exactly one message of each role.
func ValidateForTraining(rec ChatRecord) error {
	counts := make(map[Role]int, 3)
	for _, m := range rec.Messages {
		counts[m.Role]++
	}
	for _, role := range []Role{RoleSystem, RoleUser, RoleAssistant} {
		switch counts[role] {
		case 1:
		case 0:
			return &SchemaError{Reason: fmt.Sprintf("missing %s message", role)}
		default:
			return &SchemaError{Reason: fmt.Sprintf("%d %s messages, want exactly 1", counts[role], role)}
		}
	}
	return nil
}

// AssistantDecision attempts to parse the assistant turn as a structured
// decision. Failure is advisory, not a validation error: records are not
// guaranteed to carry machine-checkable assistant output.
func AssistantDecision(rec ChatRecord) (Decision, bool) {
	msg, ok := rec.FirstByRole(RoleAssistant)
	if !ok {
		return Decision{}, false
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(msg.Content), &probe); err != nil || probe == nil {
		return Decision{}, false
	}

	var decision Decision
	if err := json.Unmarshal([]byte(msg.Content), &decision); err != nil {
		return Decision{}, false
	}
	return decision, true
}
