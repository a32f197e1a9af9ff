package infer

import (
	"fmt"
	"strings"

	"github.com/sibyl-lab/sibyl-sft/internal/model/record"
)

// BuildPrompt renders the conversation for gen. When the generator carries
// its model's chat template the rendering is delegated there; otherwise the
// deterministic labeled-block fallback keeps the harness working instead of
// failing.
func BuildPrompt(gen Generator, messages []record.Message) (string, error) {
	if t, ok := gen.(PromptTemplater); ok {
		prompt, err := t.FormatPrompt(messages, true)
		if err != nil {
			return "", fmt.Errorf("chat template failed: %w", err)
		}
		return prompt, nil
	}
	return FallbackPrompt(messages), nil
}

// FallbackPrompt concatenates each message as a labeled block in order,
// separated by a blank line: "[<role>]\n<content>".
func FallbackPrompt(messages []record.Message) string {
	blocks := make([]string, 0, len(messages))
	for _, m := range messages {
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", m.Role, m.Content))
	}
	return strings.Join(blocks, "\n\n")
}
