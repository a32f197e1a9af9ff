package infer

import (
	"strings"

	"github.com/sibyl-lab/sibyl-sft/internal/model/record"
)

// FormatChatML renders messages with the ChatML template used by the Qwen
// instruct family, optionally ending with an open assistant turn so the model
// continues the conversation rather than echoing it.
func FormatChatML(messages []record.Message, addGenerationPrompt bool) string {
	var b strings.Builder
	for _, m := range messages {
		b.WriteString("<|im_start|>")
		b.WriteString(string(m.Role))
		b.WriteString("\n")
		b.WriteString(m.Content)
		b.WriteString("<|im_end|>\n")
	}
	if addGenerationPrompt {
		b.WriteString("<|im_start|>assistant\n")
	}
	return b.String()
}
