// Package questions loads the trivia question bank and answer token sets.
package questions

import (
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
)

// Question is one true/false statement. Immutable once loaded.
type Question struct {
	Text   string `json:"question"`
	IsTrue bool   `json:"is_true"`
}

// Bank holds the question deck plus the token sets that count as a true or
// false answer on the wire.
type Bank struct {
	Questions    []Question `json:"questions"`
	TrueOptions  []string   `json:"true_options"`
	FalseOptions []string   `json:"false_options"`
}

// Load reads a question bank from a JSON file.
func Load(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var bank Bank
	if err := json.Unmarshal(data, &bank); err != nil {
		return Bank{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(bank.Questions) == 0 {
		return Bank{}, fmt.Errorf("%s contains no questions", path)
	}
	if len(bank.TrueOptions) == 0 || len(bank.FalseOptions) == 0 {
		return Bank{}, fmt.Errorf("%s is missing answer token sets", path)
	}
	return bank, nil
}

// Default returns the built-in bank used when no questions file is
// configured.
func Default() Bank {
	return Bank{
		Questions: []Question{
			{Text: "Aston Villa's current manager is Pep Guardiola", IsTrue: false},
			{Text: "Aston Villa's mascot is a lion named Hercules", IsTrue: true},
			{Text: "Aston Villa play their home games at Villa Park", IsTrue: true},
			{Text: "Aston Villa have never won the European Cup", IsTrue: false},
			{Text: "Aston Villa's club colors are claret and blue", IsTrue: true},
			{Text: "Aston Villa were founded in 1874", IsTrue: true},
			{Text: "Aston Villa's biggest rivals are Manchester City", IsTrue: false},
			{Text: "Villa Park has hosted more FA Cup semi-finals than any other stadium", IsTrue: true},
		},
		TrueOptions:  []string{"Y", "T", "1", "y", "t", "true", "True"},
		FalseOptions: []string{"N", "F", "0", "n", "f", "false", "False"},
	}
}

// Shuffled returns a copy of the deck in the order given by seed. The deck
// is shuffled once per session and consumed front to back.
func (b Bank) Shuffled(seed int64) []Question {
	deck := make([]Question, len(b.Questions))
	copy(deck, b.Questions)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// ShuffleSeed generates a high-entropy seed for the per-session shuffle.
func ShuffleSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
