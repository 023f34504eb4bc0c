package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"ragebait-resume/internal/cli"
	"ragebait-resume/internal/llm"
	"ragebait-resume/internal/llm/groq"
	"ragebait-resume/internal/shared/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	client := llm.Client(llm.PlaceholderClient{})
	if llm.HasCredentials(cfg.GroqAPIKey) {
		client = groq.NewClient(groq.Config{
			APIKey:     cfg.GroqAPIKey,
			BaseURL:    cfg.GroqBaseURL,
			Timeout:    cfg.GroqTimeout,
			MaxRetries: cfg.GroqMaxRetries,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd(cli.Deps{Config: cfg, LLM: client}).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
