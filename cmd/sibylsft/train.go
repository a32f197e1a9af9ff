package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sibyl-lab/sibyl-sft/internal/config"
	"github.com/sibyl-lab/sibyl-sft/internal/service/infer"
	"github.com/sibyl-lab/sibyl-sft/internal/service/train"
)

var trainOpts struct {
	model     string
	data      string
	output    string
	epochs    int
	batchSize int
	lr        float64
	loraRank  int
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Prepare the dataset and launch LoRA fine-tuning",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Println("SIBYL SFT Training")
		fmt.Println("==================")
		fmt.Printf("  Model:      %s\n", trainOpts.model)
		fmt.Printf("  Data:       %s\n", trainOpts.data)
		fmt.Printf("  Output:     %s\n", trainOpts.output)
		fmt.Printf("  Epochs:     %d\n", trainOpts.epochs)
		fmt.Printf("  Batch size: %d\n", trainOpts.batchSize)
		fmt.Printf("  LR:         %g\n", trainOpts.lr)
		fmt.Printf("  LoRA rank:  %d\n", trainOpts.loraRank)
		fmt.Println()

		// Fail on a missing engine before touching any files.
		python, err := infer.LookPython()
		if err != nil {
			return err
		}

		fmt.Println("-> Preparing data...")
		dataDir := filepath.Join(trainOpts.output, "data")
		result, err := train.Prepare(trainOpts.data, dataDir)
		if err != nil {
			return err
		}
		fmt.Printf("  Train: %d examples -> %s\n", result.TrainCount, result.TrainPath)
		fmt.Printf("  Valid: %d examples -> %s\n", result.ValidCount, result.ValidPath)
		fmt.Println()

		fmt.Println("-> Starting LoRA fine-tuning...")
		err = train.Run(cmd.Context(), train.Options{
			Python:       python,
			Model:        trainOpts.model,
			DataDir:      dataDir,
			AdapterDir:   trainOpts.output,
			Epochs:       trainOpts.epochs,
			BatchSize:    trainOpts.batchSize,
			LearningRate: trainOpts.lr,
			LoRARank:     trainOpts.loraRank,
		})
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Printf("Training complete, adapter saved to %s/\n", trainOpts.output)
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Printf("  Test: sibylsft infer --adapter %s\n", trainOpts.output)
		return nil
	},
}

func init() {
	trainCmd.Flags().StringVar(&trainOpts.model, "model", config.DefaultBaseModel, "base model identifier")
	trainCmd.Flags().StringVar(&trainOpts.data, "data", "data/sft-train.jsonl", "training JSONL path")
	trainCmd.Flags().StringVar(&trainOpts.output, "output", "adapters", "adapter output directory")
	trainCmd.Flags().IntVar(&trainOpts.epochs, "epochs", 5, "training epochs")
	trainCmd.Flags().IntVar(&trainOpts.batchSize, "batch-size", 1, "batch size")
	trainCmd.Flags().Float64Var(&trainOpts.lr, "lr", 1e-5, "learning rate")
	trainCmd.Flags().IntVar(&trainOpts.loraRank, "lora-rank", 8, "LoRA rank")
}
