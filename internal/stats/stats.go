// Package stats defines the statistics sink the session engine persists
// through.
//
// The sink is deliberately narrow: the engine loads one Snapshot, folds a
// finished session into it, and saves it back. Storage format and location
// belong to the implementation (see the bbolt subpackage).
package stats

import (
	"context"
	"errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// PlayerTally is one player's cumulative record across sessions.
type PlayerTally struct {
	GamesPlayed int `json:"games_played"`
	GamesWon    int `json:"games_won"`
	Correct     int `json:"correct_answers"`
	Incorrect   int `json:"incorrect_answers"`
}

// QuestionTally is one question's cumulative record across sessions.
type QuestionTally struct {
	Correct   int `json:"correct_answers"`
	Incorrect int `json:"incorrect_answers"`
	Appeared  int `json:"times_appeared"`
}

// Leader is the player with the most wins so far.
type Leader struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// Snapshot is the full statistics state the sink loads and saves.
type Snapshot struct {
	Players     map[string]PlayerTally
	Questions   map[string]QuestionTally
	GamesPlayed int
	Leader      Leader
}

// NewSnapshot returns an empty snapshot ready for recording.
func NewSnapshot() Snapshot {
	return Snapshot{
		Players:   make(map[string]PlayerTally),
		Questions: make(map[string]QuestionTally),
	}
}

// EnsurePlayer creates a zero tally for the player if absent.
func (s *Snapshot) EnsurePlayer(name string) {
	if _, ok := s.Players[name]; !ok {
		s.Players[name] = PlayerTally{}
	}
}

// RecordGame counts one finished session for the given participants.
func (s *Snapshot) RecordGame(participants []string) {
	s.GamesPlayed++
	for _, name := range participants {
		s.EnsurePlayer(name)
		tally := s.Players[name]
		tally.GamesPlayed++
		s.Players[name] = tally
	}
}

// RecordAnswer counts one graded answer for the player.
func (s *Snapshot) RecordAnswer(name string, correct bool) {
	s.EnsurePlayer(name)
	tally := s.Players[name]
	if correct {
		tally.Correct++
	} else {
		tally.Incorrect++
	}
	s.Players[name] = tally
}

// RecordWin counts one session win and promotes the leader if overtaken.
func (s *Snapshot) RecordWin(name string) {
	s.EnsurePlayer(name)
	tally := s.Players[name]
	tally.GamesWon++
	s.Players[name] = tally

	if tally.GamesWon > s.Leader.Wins {
		s.Leader = Leader{Name: name, Wins: tally.GamesWon}
	}
}

// RecordQuestion counts one appearance of the question with its per-round
// correct and incorrect answer counts.
func (s *Snapshot) RecordQuestion(text string, correct, incorrect int) {
	tally := s.Questions[text]
	tally.Correct += correct
	tally.Incorrect += incorrect
	tally.Appeared++
	s.Questions[text] = tally
}

// Store persists snapshots across sessions.
type Store interface {
	// Load returns the stored snapshot, or an empty one when nothing has
	// been saved yet.
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Close() error
}
