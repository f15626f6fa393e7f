package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/omerad1/TriviaKings/internal/client"
	"github.com/omerad1/TriviaKings/internal/platform/config"
)

func main() {
	log.SetPrefix("[CLIENT] ")

	var cfg client.Config
	if err := config.Load(&cfg); err != nil {
		config.Exitf("load config: %v", err)
	}

	name := flag.String("name", cfg.PlayerName, "player display name")
	flag.Parse()
	if *name == "" {
		config.Exitf("player name required, use -name or TRIVIA_PLAYER_NAME")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &client.Client{
		Name:         *name,
		Provider:     client.NewStdinProvider(os.Stdin),
		UDPPort:      cfg.UDPPort,
		ServerName:   cfg.ServerName,
		AnswerWindow: cfg.AnswerWindow,
		Out:          os.Stdout,
	}
	if err := c.Run(ctx); err != nil {
		log.Fatalf("client stopped: %v", err)
	}
}
