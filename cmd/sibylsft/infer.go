package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/sibyl-lab/sibyl-sft/internal/config"
	"github.com/sibyl-lab/sibyl-sft/internal/model/record"
	"github.com/sibyl-lab/sibyl-sft/internal/service/dataset"
	"github.com/sibyl-lab/sibyl-sft/internal/service/infer"
)

var inferOpts struct {
	model       string
	adapter     string
	data        string
	maxTokens   int
	interactive bool
	compare     bool
}

var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Run the model on a dataset example or interactive board states",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		gen, err := newGenerator(cmd.Context(), cfg, inferOpts.model, inferOpts.adapter)
		if err != nil {
			return err
		}
		harness := infer.NewHarness(gen, inferOpts.maxTokens)

		if inferOpts.interactive {
			session := infer.NewInteractiveSession(harness, os.Stdin, os.Stdout)
			return session.Run(cmd.Context())
		}

		return runExample(cmd.Context(), harness)
	},
}

// newGenerator picks the generation engine: the local mlx engine first (the
// only one that can apply an adapter), the remote Ark endpoint as fallback
// for adapter-less runs when no local interpreter exists.
func newGenerator(ctx context.Context, cfg *config.Config, model, adapter string) (infer.Generator, error) {
	gen, err := infer.NewMLXGenerator(model, adapter)
	if err == nil {
		return gen, nil
	}
	if adapter == "" && cfg.AI.Enabled() {
		log.Printf("[infer] local engine unavailable, using remote ark model")
		return infer.NewArkGenerator(ctx, cfg.AI)
	}
	return nil, err
}

// runExample evaluates one randomly chosen dataset record: print the board
// state and the expected decision, then the model's classified output.
func runExample(ctx context.Context, harness *infer.Harness) error {
	records, err := dataset.Load(inferOpts.data)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: %s holds no records", dataset.ErrMissingData, inferOpts.data)
	}

	example := records[rand.Intn(len(records))]

	fmt.Println("SIBYL SFT Inference")
	fmt.Println("===================")
	fmt.Println()
	if board, ok := example.FirstByRole(record.RoleUser); ok {
		fmt.Println("Board state:")
		fmt.Println(board.Content)
		fmt.Println()
	}
	if expected, ok := example.FirstByRole(record.RoleAssistant); ok {
		fmt.Println("Expected response:")
		fmt.Println(expected.Content)
		fmt.Println()
	}

	if inferOpts.compare {
		return runComparison(ctx, example)
	}

	fmt.Println("--- Model Output ---")
	resp, err := harness.Run(ctx, example.InferenceMessages())
	if err != nil {
		return err
	}
	fmt.Println(resp.Raw)
	fmt.Println()
	fmt.Println(resp.Report())
	return nil
}

// runComparison runs the base model and the fine-tuned model on the same
// example so their decisions can be eyeballed side by side.
func runComparison(ctx context.Context, example record.ChatRecord) error {
	base, err := infer.NewMLXGenerator(inferOpts.model, "")
	if err != nil {
		return err
	}

	fmt.Println("--- Base Model ---")
	if err := runOne(ctx, base, example); err != nil {
		return err
	}

	if inferOpts.adapter == "" {
		return nil
	}

	tuned, err := infer.NewMLXGenerator(inferOpts.model, inferOpts.adapter)
	if err != nil {
		return err
	}

	fmt.Println("--- Fine-tuned ---")
	return runOne(ctx, tuned, example)
}

func runOne(ctx context.Context, gen infer.Generator, example record.ChatRecord) error {
	harness := infer.NewHarness(gen, inferOpts.maxTokens)
	resp, err := harness.Run(ctx, example.InferenceMessages())
	if err != nil {
		return err
	}
	fmt.Println(resp.Raw)
	fmt.Println(resp.Report())
	fmt.Println()
	return nil
}

func init() {
	inferCmd.Flags().StringVar(&inferOpts.model, "model", config.DefaultBaseModel, "base model identifier")
	inferCmd.Flags().StringVar(&inferOpts.adapter, "adapter", "", "LoRA adapter directory")
	inferCmd.Flags().StringVar(&inferOpts.data, "data", "data/sft-train.jsonl", "test data JSONL, a random example is picked")
	inferCmd.Flags().IntVar(&inferOpts.maxTokens, "max-tokens", infer.DefaultMaxTokens, "generation token budget")
	inferCmd.Flags().BoolVar(&inferOpts.interactive, "interactive", false, "enter board states manually")
	inferCmd.Flags().BoolVar(&inferOpts.compare, "compare", false, "compare base vs fine-tuned output")
}
