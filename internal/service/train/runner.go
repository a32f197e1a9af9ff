package train

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ExternalProcessError reports a trainer subprocess that exited non-zero.
// The exit code is forwarded to the process exit status.
type ExternalProcessError struct {
	ExitCode int
}

func (e *ExternalProcessError) Error() string {
	return fmt.Sprintf("training process exited with code %d", e.ExitCode)
}

// Options configures one fine-tuning job.
type Options struct {
	Python       string
	Model        string
	DataDir      string
	AdapterDir   string
	Epochs       int
	BatchSize    int
	LearningRate float64
	LoRARank     int
}

// Roughly maps epochs onto the trainer's iteration count.
const itersPerEpoch = 100

// Run launches the external LoRA fine-tuning job and waits for it. The job's
// only contract is its exit status; its output is passed straight through.
func Run(ctx context.Context, opts Options) error {
	args := []string{
		"-m", "mlx_lm.lora",
		"--model", opts.Model,
		"--train",
		"--data", opts.DataDir,
		"--adapter-path", opts.AdapterDir,
		"--iters", strconv.Itoa(opts.Epochs * itersPerEpoch),
		"--batch-size", strconv.Itoa(opts.BatchSize),
		"--learning-rate", strconv.FormatFloat(opts.LearningRate, 'g', -1, 64),
		"--lora-layers", "8",
		"--lora-rank", strconv.Itoa(opts.LoRARank),
	}

	log.Printf("[train] exec: %s %s", opts.Python, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, opts.Python, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExternalProcessError{ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("launch trainer: %w", err)
	}
	return nil
}
