package infer

import (
	"context"
	"log"

	"github.com/sibyl-lab/sibyl-sft/internal/model/record"
)

// SystemPrompt is the fixed system turn paired with every board state.
const SystemPrompt = "SIBYL tactical AI. You control a unit on a 6x6 grid."

// DefaultMaxTokens bounds generation length when the caller does not choose.
const DefaultMaxTokens = 512

// Harness drives one inference round trip: prompt construction, a blocking
// generation call, and classification of whatever came back.
type Harness struct {
	gen       Generator
	maxTokens int
}

// NewHarness wires a harness around a generator.
func NewHarness(gen Generator, maxTokens int) *Harness {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Harness{gen: gen, maxTokens: maxTokens}
}

// Generator exposes the wrapped generation capability.
func (h *Harness) Generator() Generator { return h.gen }

// MaxTokens exposes the configured generation budget.
func (h *Harness) MaxTokens() int { return h.maxTokens }

// Run generates a completion for the leading messages of a record and
// classifies it. Generation failures propagate; classification never does.
func (h *Harness) Run(ctx context.Context, messages []record.Message) (ClassifiedResponse, error) {
	prompt, err := BuildPrompt(h.gen, messages)
	if err != nil {
		return ClassifiedResponse{}, err
	}

	raw, err := h.gen.Generate(ctx, prompt, h.maxTokens)
	if err != nil {
		return ClassifiedResponse{}, err
	}

	resp := Classify(raw)
	log.Printf("[infer] model=%s status=%s length=%d", h.gen.Name(), resp.Status, len(raw))
	return resp, nil
}

// BoardMessages pairs a raw board description with the fixed system turn.
func BoardMessages(board string) []record.Message {
	return []record.Message{
		{Role: record.RoleSystem, Content: SystemPrompt},
		{Role: record.RoleUser, Content: board},
	}
}

// RunBoard runs the harness on a human-supplied board state.
func (h *Harness) RunBoard(ctx context.Context, board string) (ClassifiedResponse, error) {
	return h.Run(ctx, BoardMessages(board))
}
