package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sibylsft",
	Short: "SIBYL tactical-decision SFT harness",
	Long: `sibylsft prepares conversational training records for supervised
fine-tuning of the SIBYL tactical-decision model and validates both the
prepared data and the model's output against the structured decision schema.

Subcommands:
  train   validate + split the dataset and launch LoRA fine-tuning
  infer   run the model on a dataset example or interactive board states
  serve   expose inference over HTTP, SSE and websocket`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(inferCmd)
	rootCmd.AddCommand(serveCmd)
}
