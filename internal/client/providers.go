package client

import (
	"bufio"
	"io"
	"math/rand"
	"sync"
	"time"
)

// AnswerProvider supplies one answer token per question. Provide must
// return by the deadline; an empty answer means the player stays silent
// for the round.
type AnswerProvider interface {
	Provide(question string, deadline time.Time) (string, error)
}

// StdinProvider turns an interactive input stream into answers. A single
// pump goroutine owns the reader, so a prompt the user never answered
// does not wedge the next question.
type StdinProvider struct {
	in    io.Reader
	once  sync.Once
	lines chan string
}

func NewStdinProvider(in io.Reader) *StdinProvider {
	return &StdinProvider{in: in, lines: make(chan string)}
}

func (p *StdinProvider) Provide(question string, deadline time.Time) (string, error) {
	p.once.Do(p.start)
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case line, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-timer.C:
		return "", nil
	}
}

func (p *StdinProvider) start() {
	go func() {
		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			p.lines <- scanner.Text()
		}
		close(p.lines)
	}()
}

// RandomProvider answers with a coin flip.
type RandomProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomProvider(seed int64) *RandomProvider {
	return &RandomProvider{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomProvider) Provide(question string, deadline time.Time) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rng.Intn(2) == 0 {
		return "T", nil
	}
	return "F", nil
}

// WeightedProvider answers true with the given bias, a cheap stand-in
// for a smarter strategy. Bias 1 always answers true, 0 always false.
type WeightedProvider struct {
	mu   sync.Mutex
	rng  *rand.Rand
	bias float64
}

func NewWeightedProvider(trueBias float64, seed int64) *WeightedProvider {
	return &WeightedProvider{rng: rand.New(rand.NewSource(seed)), bias: trueBias}
}

func (p *WeightedProvider) Provide(question string, deadline time.Time) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rng.Float64() < p.bias {
		return "T", nil
	}
	return "F", nil
}
