// Package session owns the server lifecycle: announce, accept, play, reset.
//
// One live session at a time moves through Announcing/Accepting (which run
// concurrently and share the join-window signal), Playing, and Finished.
// Finishing persists statistics, tears down every socket, and the
// orchestrator starts the next session with a brand-new registry and round
// engine; nothing crosses sessions except the statistics store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/omerad1/TriviaKings/internal/game"
	"github.com/omerad1/TriviaKings/internal/questions"
	"github.com/omerad1/TriviaKings/internal/stats"
	"github.com/omerad1/TriviaKings/internal/wire"
)

// ErrNoFreePort indicates the TCP port scan found nothing bindable.
var ErrNoFreePort = errors.New("no free tcp port")

// Orchestrator runs game sessions back to back until its context ends.
type Orchestrator struct {
	cfg   Config
	bank  questions.Bank
	store stats.Store
}

// New creates an orchestrator over the given question bank and statistics
// store.
func New(cfg Config, bank questions.Bank, store stats.Store) *Orchestrator {
	return &Orchestrator{cfg: cfg, bank: bank, store: store}
}

// Run loops sessions until ctx ends. Only resource-acquisition and
// persistence failures are fatal; anything a single peer does is absorbed
// inside the session.
func (o *Orchestrator) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		s, err := o.newSession()
		if err != nil {
			return err
		}
		err = s.run(ctx)
		s.teardown()
		if err != nil {
			return err
		}
	}
	return nil
}

// session is one full pass through the lifecycle, owning a fresh registry
// and listener.
type session struct {
	cfg      Config
	bank     questions.Bank
	store    stats.Store
	id       string
	registry *game.Registry
	listener *net.TCPListener
	port     uint16
}

func (o *Orchestrator) newSession() (*session, error) {
	listener, port, err := listen(o.cfg.TCPPort, o.cfg.PortScanSpan)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:      o.cfg,
		bank:     o.bank,
		store:    o.store,
		id:       uuid.NewString(),
		registry: game.NewRegistry(),
		listener: listener,
		port:     port,
	}, nil
}

// listen binds the first free TCP port in [base, base+span).
func listen(base, span int) (*net.TCPListener, uint16, error) {
	if span < 1 {
		span = 1
	}
	for port := base; port < base+span; port++ {
		l, err := net.Listen("tcp4", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		actual := l.Addr().(*net.TCPAddr).Port
		return l.(*net.TCPListener), uint16(actual), nil
	}
	return nil, 0, fmt.Errorf("%w: scanned %d-%d", ErrNoFreePort, base, base+span-1)
}

func (s *session) run(ctx context.Context) error {
	log.Printf("session %s: listening at %v, announcing on udp port %d", s.id, s.listener.Addr(), s.cfg.UDPPort)

	offer, err := wire.EncodeOffer(s.cfg.ServerName, s.port)
	if err != nil {
		return fmt.Errorf("encode offer: %w", err)
	}

	joinCtx, closeJoin := context.WithCancel(ctx)
	defer closeJoin()

	announcer := &Announcer{
		Offer:   offer,
		Addr:    net.JoinHostPort(s.cfg.BroadcastAddr, strconv.Itoa(s.cfg.UDPPort)),
		Cadence: s.cfg.OfferCadence,
		Grace:   s.cfg.JoinGrace,
		Count:   s.registry.Count,
	}
	acceptor := &Acceptor{
		Listener:  s.listener,
		Registry:  s.registry,
		Handshake: s.cfg.Handshake,
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		// The announcer decides when the join window ends; closing the
		// shared signal stops the acceptor with it.
		defer closeJoin()
		return announcer.Run(joinCtx)
	})
	g.Go(func() error {
		return acceptor.Run(joinCtx)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("join window: %w", err)
	}
	_ = s.listener.Close()

	if ctx.Err() != nil || s.registry.Count() == 0 {
		return nil
	}
	return s.play(ctx)
}

func (s *session) play(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load statistics: %w", err)
	}

	grader := game.Grader{TrueTokens: s.bank.TrueOptions, FalseTokens: s.bank.FalseOptions}
	engine := game.NewRoundEngine(s.registry, grader, s.cfg.AnswerWindow, s.cfg.KickSilent)

	participants := make([]string, 0, s.registry.Count())
	for _, p := range s.registry.AllPlayers() {
		participants = append(participants, p.Name)
	}

	engine.Broadcast(s.welcomeMessage())

	seed, err := questions.ShuffleSeed()
	if err != nil {
		return fmt.Errorf("shuffle seed: %w", err)
	}

	var winner *game.Player
	for _, q := range s.bank.Shuffled(seed) {
		if ctx.Err() != nil {
			return nil
		}
		if s.registry.ActiveCount() == 0 {
			break
		}

		w, res := engine.PlayRound(q)
		for _, p := range res.Correct {
			snap.RecordAnswer(p.Name, true)
		}
		for _, p := range res.Incorrect {
			snap.RecordAnswer(p.Name, false)
		}
		snap.RecordQuestion(q.Text, len(res.Correct), len(res.Incorrect))

		if w != nil {
			winner = w
			break
		}
	}
	if ctx.Err() != nil {
		return nil
	}

	switch {
	case winner != nil:
		engine.Broadcast(game.GameOverMessage(winner))
		snap.RecordWin(winner.Name)
	case s.registry.ActiveCount() == 0:
		engine.Broadcast(game.DrawMessage("Everyone is out of the game, no winner this time"))
	default:
		engine.Broadcast(game.DrawMessage("We are out of questions, no winner this time"))
	}
	snap.RecordGame(participants)

	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save statistics: %w", err)
	}
	log.Printf("session %s: %d rounds played, leader is %s with %d wins",
		s.id, engine.Round(), snap.Leader.Name, snap.Leader.Wins)
	return nil
}

func (s *session) welcomeMessage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome to the %s server, where we are answering trivia questions!", s.cfg.ServerName)
	for i, p := range s.registry.AllPlayers() {
		fmt.Fprintf(&b, "\nPlayer %d: %s", i+1, p.Name)
	}
	return b.String()
}

// teardown closes every socket the session owns. The next session starts
// from a clean slate; only the statistics store carries over.
func (s *session) teardown() {
	_ = s.listener.Close()
	for _, p := range s.registry.AllPlayers() {
		p.Close()
	}
}
