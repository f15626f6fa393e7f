package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/omerad1/TriviaKings/internal/platform/config"
	"github.com/omerad1/TriviaKings/internal/questions"
	"github.com/omerad1/TriviaKings/internal/session"
	statsbbolt "github.com/omerad1/TriviaKings/internal/stats/bbolt"
)

func main() {
	log.SetPrefix("[SERVER] ")

	var cfg session.Config
	if err := config.Load(&cfg); err != nil {
		config.Exitf("load config: %v", err)
	}

	bank := questions.Default()
	if cfg.QuestionsPath != "" {
		var err error
		bank, err = questions.Load(cfg.QuestionsPath)
		if err != nil {
			config.Exitf("load questions: %v", err)
		}
	}

	store, err := statsbbolt.Open(cfg.StatsPath)
	if err != nil {
		config.Exitf("open statistics store: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.New(cfg, bank, store).Run(ctx); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
