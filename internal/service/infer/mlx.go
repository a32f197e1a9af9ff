package infer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sibyl-lab/sibyl-sft/internal/model/record"
)

// MLXGenerator runs the local mlx_lm engine out of process, optionally with a
// LoRA adapter layered on the base model.
type MLXGenerator struct {
	Python  string
	Model   string
	Adapter string
}

// LookPython resolves the local engine interpreter, the dependency the local
// generator and the trainer both require.
func LookPython() (string, error) {
	python, err := exec.LookPath("python3")
	if err != nil {
		return "", fmt.Errorf("%w: python3 not on PATH (pip install mlx mlx-lm)", ErrMissingDependency)
	}
	return python, nil
}

// NewMLXGenerator builds the local generator, probing for the interpreter up
// front so a missing engine fails before any work is done.
func NewMLXGenerator(baseModel, adapterPath string) (*MLXGenerator, error) {
	python, err := LookPython()
	if err != nil {
		return nil, err
	}
	return &MLXGenerator{Python: python, Model: baseModel, Adapter: adapterPath}, nil
}

// Name identifies the backing model, including the adapter when applied.
func (g *MLXGenerator) Name() string {
	if g.Adapter != "" {
		return g.Model + " + " + g.Adapter
	}
	return g.Model
}

// Generate runs one blocking completion via the engine subprocess. The wait
// is unbounded apart from ctx cancellation.
func (g *MLXGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	args := []string{
		"-m", "mlx_lm.generate",
		"--model", g.Model,
		"--prompt", prompt,
		"--max-tokens", strconv.Itoa(maxTokens),
	}
	if g.Adapter != "" {
		args = append(args, "--adapter-path", g.Adapter)
	}

	cmd := exec.CommandContext(ctx, g.Python, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("mlx_lm.generate failed: %w: %s", err, detail)
		}
		return "", fmt.Errorf("mlx_lm.generate failed: %w", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// FormatPrompt renders with the base model family's chat template, leaving
// the assistant turn open. This gives the raw-completion engine the primary
// templated prompt path.
func (g *MLXGenerator) FormatPrompt(messages []record.Message, addGenerationPrompt bool) (string, error) {
	return FormatChatML(messages, addGenerationPrompt), nil
}
