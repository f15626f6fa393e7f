package game

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/omerad1/TriviaKings/internal/questions"
	"github.com/omerad1/TriviaKings/internal/wire"
)

const (
	ansiCyan  = "\033[36m"
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
	ansiPink  = "\033[95m"
	ansiReset = "\033[0m"
)

// RoundEngine runs one question round at a time: broadcast, collect, grade,
// evolve the active set.
type RoundEngine struct {
	registry  *Registry
	collector *Collector
	grader    Grader

	// AnswerWindow bounds answer collection for one round.
	AnswerWindow time.Duration
	// KickSilent removes non-responders from the session entirely. When
	// false they are merely graded incorrect, matching the lenient
	// revision of the original rules.
	KickSilent bool

	round int
}

// NewRoundEngine creates a round engine over the given registry.
func NewRoundEngine(registry *Registry, grader Grader, window time.Duration, kickSilent bool) *RoundEngine {
	return &RoundEngine{
		registry:     registry,
		collector:    &Collector{},
		grader:       grader,
		AnswerWindow: window,
		KickSilent:   kickSilent,
	}
}

// Round returns the number of rounds played so far.
func (e *RoundEngine) Round() int {
	return e.round
}

// PlayRound runs one full round. It returns the sole winner if exactly one
// player answered correctly, else nil, plus the graded result for the
// statistics sink. Question broadcasts happen before collection starts,
// grading happens after collection returns, and the engine is the only
// writer touching the active set for the round.
func (e *RoundEngine) PlayRound(q questions.Question) (*Player, RoundResult) {
	e.round++

	active := e.registry.ActivePlayers()
	e.collector.Flush(active)
	e.Broadcast(e.roundMessage(q))

	answers := e.collector.Collect(active, e.AnswerWindow)
	res := e.grader.Grade(q, active, answers)

	for _, p := range res.Silent {
		if e.KickSilent {
			log.Printf("player %s gave no answer, kicked", p.Name)
			e.registry.Kick(p)
			p.Close()
		} else {
			res.Incorrect = append(res.Incorrect, p)
		}
	}

	switch len(res.Correct) {
	case 0:
		e.Broadcast(ansiRed + "No one answered correctly, playing another round" + ansiReset)
		return nil, res
	case 1:
		return res.Correct[0], res
	default:
		e.registry.SetActive(res.Correct)
		e.Broadcast(e.summaryMessage(res))
		for _, p := range res.Incorrect {
			e.send(p, ansiRed+"You are out of the game, better luck next time!"+ansiReset)
		}
		return nil, res
	}
}

// Broadcast sends a message to every registered player, active or not.
// A failed send means the peer is gone: the player is kicked and the
// connection closed, and the loop carries on.
func (e *RoundEngine) Broadcast(msg string) {
	log.Print(msg)
	for _, p := range e.registry.AllPlayers() {
		e.send(p, msg)
	}
}

func (e *RoundEngine) send(p *Player, msg string) {
	if err := wire.WriteLine(p.Conn, msg); err != nil {
		log.Printf("send to %s: %v, kicked", p.Name, err)
		e.registry.Kick(p)
		p.Close()
	}
}

func (e *RoundEngine) roundMessage(q questions.Question) string {
	names := make([]string, 0)
	for _, p := range e.registry.ActivePlayers() {
		names = append(names, p.Name)
	}
	return fmt.Sprintf("%sRound %d%s, played by %s\nThe next question is...\n%s %s",
		ansiCyan, e.round, ansiReset, strings.Join(names, ", "), wire.QuestionMarker, q.Text)
}

func (e *RoundEngine) summaryMessage(res RoundResult) string {
	var b strings.Builder
	for _, p := range res.Correct {
		fmt.Fprintf(&b, "%s%s is correct!%s ", ansiGreen, p.Name, ansiReset)
	}
	for _, p := range res.Incorrect {
		fmt.Fprintf(&b, "%s%s is incorrect!%s ", ansiRed, p.Name, ansiReset)
	}
	return strings.TrimSpace(b.String())
}

// GameOverMessage builds the winner announcement carrying the game-over
// marker clients key off.
func GameOverMessage(winner *Player) string {
	return fmt.Sprintf("%s\nCongratulations to the winner: %s%s%s",
		wire.GameOverMarker, ansiPink, winner.Name, ansiReset)
}

// DrawMessage builds the no-winner announcement carrying the game-over
// marker.
func DrawMessage(reason string) string {
	return fmt.Sprintf("%s\n%s", wire.GameOverMarker, reason)
}
