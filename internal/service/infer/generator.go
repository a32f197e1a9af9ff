package infer

import (
	"context"
	"errors"

	"github.com/sibyl-lab/sibyl-sft/internal/model/record"
)

// ErrMissingDependency marks a run that cannot start because no usable
// generation engine is available.
var ErrMissingDependency = errors.New("generation engine unavailable")

// Generator is the opaque text-generation capability: a rendered prompt and a
// token budget in, a completion out. The call blocks until generation
// finishes; no timeout is imposed beyond the caller's context.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// PromptTemplater is an optional Generator capability: render role-tagged
// messages with the model's own chat template, leaving the final assistant
// turn open for generation. Generators without it get the labeled-block
// fallback from BuildPrompt.
type PromptTemplater interface {
	FormatPrompt(messages []record.Message, addGenerationPrompt bool) (string, error)
}
