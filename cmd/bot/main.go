package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omerad1/TriviaKings/internal/client"
	"github.com/omerad1/TriviaKings/internal/platform/config"
)

var roster = []string{
	"Magnus", "Beth", "Hikaru", "Judit", "Fabiano",
	"Anna", "Wesley", "Hou", "Levon", "Alexandra",
}

func main() {
	log.SetPrefix("[BOT] ")

	var cfg client.Config
	if err := config.Load(&cfg); err != nil {
		config.Exitf("load config: %v", err)
	}

	count := flag.Int("n", 3, "number of bots to run")
	bias := flag.Float64("p", 0.5, "probability a bot answers true")
	quiet := flag.Bool("quiet", false, "suppress relayed server lines")
	flag.Parse()
	if *count < 1 {
		config.Exitf("need at least one bot, got %d", *count)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var out io.Writer = os.Stdout
	if *quiet {
		out = nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < *count; i++ {
		name := roster[i%len(roster)]
		if i >= len(roster) {
			name = fmt.Sprintf("%s%d", name, i/len(roster)+1)
		}
		seed := time.Now().UnixNano() + int64(i)
		c := &client.Client{
			Name:         name,
			Provider:     client.NewWeightedProvider(*bias, seed),
			UDPPort:      cfg.UDPPort,
			ServerName:   cfg.ServerName,
			AnswerWindow: cfg.AnswerWindow,
			Out:          out,
		}
		g.Go(func() error { return c.Run(ctx) })
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("bot swarm stopped: %v", err)
	}
}
