package session

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/omerad1/TriviaKings/internal/questions"
	"github.com/omerad1/TriviaKings/internal/stats"
	"github.com/omerad1/TriviaKings/internal/wire"
)

// memStore is an in-memory statistics sink for session tests.
type memStore struct {
	mu    sync.Mutex
	snap  stats.Snapshot
	saved bool
}

func (m *memStore) Load(ctx context.Context) (stats.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return stats.NewSnapshot(), nil
	}
	return m.snap, nil
}

func (m *memStore) Save(ctx context.Context, snap stats.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	m.saved = true
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) snapshot() (stats.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, m.saved
}

// testClient joins the session and answers scripted tokens, one per
// question prompt, staying silent once the script runs out.
type testClient struct {
	mu        sync.Mutex
	lines     []string
	questions int
}

func runTestClient(t *testing.T, addr, name string, answers []string) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Write([]byte(name + "\n")); err != nil {
		t.Fatalf("handshake for %s: %v", name, err)
	}

	c := &testClient{}
	go func() {
		scanner := bufio.NewScanner(conn)
		next := 0
		for scanner.Scan() {
			line := scanner.Text()
			c.mu.Lock()
			c.lines = append(c.lines, line)
			isQuestion := strings.Contains(line, wire.QuestionMarker)
			if isQuestion {
				c.questions++
			}
			c.mu.Unlock()
			if isQuestion && next < len(answers) {
				conn.Write([]byte(answers[next] + "\n"))
				next++
			}
		}
	}()
	return c
}

func (c *testClient) received(substr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range c.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func (c *testClient) questionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.questions
}

func testConfig() Config {
	return Config{
		ServerName:    "Mystic",
		UDPPort:       13117,
		TCPPort:       0,
		PortScanSpan:  1,
		BroadcastAddr: "127.0.0.1",
		OfferCadence:  20 * time.Millisecond,
		JoinGrace:     200 * time.Millisecond,
		AnswerWindow:  500 * time.Millisecond,
		Handshake:     time.Second,
		KickSilent:    true,
	}
}

func runSessionTest(t *testing.T, bank questions.Bank, join func(addr string) map[string]*testClient) (map[string]*testClient, *memStore) {
	t.Helper()
	store := &memStore{}
	o := New(testConfig(), bank, store)

	s, err := o.newSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	defer s.teardown()

	clients := join(s.listener.Addr().String())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.run(ctx); err != nil {
		t.Fatalf("session run: %v", err)
	}
	return clients, store
}

func TestSessionSoleWinnerEndsWithoutSecondRound(t *testing.T) {
	bank := questions.Bank{
		Questions:    []questions.Question{{Text: "water is wet", IsTrue: true}},
		TrueOptions:  []string{"T", "Y"},
		FalseOptions: []string{"F", "N"},
	}

	clients, store := runSessionTest(t, bank, func(addr string) map[string]*testClient {
		return map[string]*testClient{
			"alice": runTestClient(t, addr, "alice", []string{"T"}),
			"bob":   runTestClient(t, addr, "bob", []string{"F"}),
			"carol": runTestClient(t, addr, "carol", []string{"F"}),
		}
	})

	deadline := time.Now().Add(2 * time.Second)
	for !clients["bob"].received(wire.GameOverMarker) {
		if time.Now().After(deadline) {
			t.Fatal("clients never received the game-over broadcast")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !clients["bob"].received("alice") {
		t.Fatal("game-over broadcast should name the winner")
	}
	if got := clients["alice"].questionCount(); got != 1 {
		t.Fatalf("expected exactly 1 question before game over, got %d", got)
	}

	snap, saved := store.snapshot()
	if !saved {
		t.Fatal("session finish should persist statistics")
	}
	if snap.GamesPlayed != 1 {
		t.Fatalf("expected 1 game played, got %d", snap.GamesPlayed)
	}
	if snap.Players["alice"].GamesWon != 1 {
		t.Fatalf("expected alice to have 1 win, got %+v", snap.Players["alice"])
	}
	if snap.Leader.Name != "alice" {
		t.Fatalf("expected leader alice, got %+v", snap.Leader)
	}
	if snap.Players["bob"].Incorrect != 1 || snap.Players["carol"].Incorrect != 1 {
		t.Fatalf("expected bob and carol graded incorrect, got %+v", snap.Players)
	}
}

func TestSessionSurvivorsAdvanceToSecondRound(t *testing.T) {
	bank := questions.Bank{
		Questions: []questions.Question{
			{Text: "water is wet", IsTrue: true},
			{Text: "fire is hot", IsTrue: true},
		},
		TrueOptions:  []string{"T", "Y"},
		FalseOptions: []string{"F", "N"},
	}

	clients, store := runSessionTest(t, bank, func(addr string) map[string]*testClient {
		return map[string]*testClient{
			"alice": runTestClient(t, addr, "alice", []string{"T", "T"}),
			"bob":   runTestClient(t, addr, "bob", []string{"T", "F"}),
			"carol": runTestClient(t, addr, "carol", []string{"F"}),
		}
	})

	deadline := time.Now().Add(2 * time.Second)
	for !clients["alice"].received(wire.GameOverMarker) {
		if time.Now().After(deadline) {
			t.Fatal("clients never received the game-over broadcast")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !clients["carol"].received("out of the game") {
		t.Fatal("carol should receive an elimination notice after round 1")
	}
	if got := clients["alice"].questionCount(); got != 2 {
		t.Fatalf("expected alice to see 2 questions, got %d", got)
	}

	snap, saved := store.snapshot()
	if !saved {
		t.Fatal("session finish should persist statistics")
	}
	if snap.Players["alice"].GamesWon != 1 {
		t.Fatalf("expected alice to win, got %+v", snap.Players["alice"])
	}
	if snap.Players["alice"].Correct != 2 {
		t.Fatalf("expected alice to have 2 correct answers, got %+v", snap.Players["alice"])
	}
	if snap.Players["bob"].Correct != 1 || snap.Players["bob"].Incorrect != 1 {
		t.Fatalf("expected bob 1/1, got %+v", snap.Players["bob"])
	}
	if snap.Players["carol"].Incorrect != 1 {
		t.Fatalf("expected carol graded incorrect once, got %+v", snap.Players["carol"])
	}

	appearances := 0
	for _, q := range snap.Questions {
		appearances += q.Appeared
	}
	if appearances != 2 {
		t.Fatalf("expected 2 question appearances recorded, got %d", appearances)
	}
}

func TestSessionOutOfQuestions(t *testing.T) {
	bank := questions.Bank{
		Questions:    []questions.Question{{Text: "water is wet", IsTrue: true}},
		TrueOptions:  []string{"T"},
		FalseOptions: []string{"F"},
	}

	// Both answer correctly every round: no sole winner, deck runs dry.
	clients, store := runSessionTest(t, bank, func(addr string) map[string]*testClient {
		return map[string]*testClient{
			"alice": runTestClient(t, addr, "alice", []string{"T"}),
			"bob":   runTestClient(t, addr, "bob", []string{"T"}),
		}
	})

	deadline := time.Now().Add(2 * time.Second)
	for !clients["alice"].received(wire.GameOverMarker) {
		if time.Now().After(deadline) {
			t.Fatal("clients never received the game-over broadcast")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !clients["alice"].received("out of questions") {
		t.Fatal("expected the out-of-questions outcome")
	}

	snap, _ := store.snapshot()
	if snap.Leader.Wins != 0 {
		t.Fatalf("no one should have won, got leader %+v", snap.Leader)
	}
	if snap.GamesPlayed != 1 {
		t.Fatalf("expected the drawn game counted, got %d", snap.GamesPlayed)
	}
}

func TestListenScansPastBusyPort(t *testing.T) {
	l, err := net.Listen("tcp4", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	busy := l.Addr().(*net.TCPAddr).Port

	got, port, err := listen(busy, 4)
	if err != nil {
		t.Fatalf("listen scan: %v", err)
	}
	defer got.Close()
	if int(port) == busy {
		t.Fatalf("scan returned the busy port %d", busy)
	}

	if _, _, err := listen(busy, 1); err == nil {
		t.Fatal("expected scan failure when only the busy port is in range")
	}
}
