package record

// Role tags a chat message with its speaker.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged turn in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRecord is one training or inference example: an ordered message
// sequence. Records are read fresh each run and never mutated.
type ChatRecord struct {
	Messages []Message `json:"messages"`
}

// Roles returns the role sequence in message order.
func (r ChatRecord) Roles() []Role {
	roles := make([]Role, 0, len(r.Messages))
	for _, m := range r.Messages {
		roles = append(roles, m.Role)
	}
	return roles
}

// FirstByRole returns the first message carrying the given role.
func (r ChatRecord) FirstByRole(role Role) (Message, bool) {
	for _, m := range r.Messages {
		if m.Role == role {
			return m, true
		}
	}
	return Message{}, false
}

// InferenceMessages returns the leading messages with the assistant turn
// excluded, preserving order. This is the prompt-side view of a record.
func (r ChatRecord) InferenceMessages() []Message {
	msgs := make([]Message, 0, len(r.Messages))
	for _, m := range r.Messages {
		if m.Role == RoleAssistant {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs
}
