package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sibyl-lab/sibyl-sft/internal/service/train"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: no .env file loaded: %v", err)
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		var procErr *train.ExternalProcessError
		if errors.As(err, &procErr) && procErr.ExitCode > 0 {
			os.Exit(procErr.ExitCode)
		}
		os.Exit(1)
	}
}
