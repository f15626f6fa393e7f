// Package game holds the round engine and its supporting pieces: the player
// registry, the fan-out answer collector, and the grading policy.
package game

import (
	"bufio"
	"net"
	"sync"

	"github.com/omerad1/TriviaKings/internal/wire"
)

// answerMaxLine bounds one answer frame in bytes.
const answerMaxLine = 256

// lineResult is one frame read off a player's connection, or the error
// that ended the reads.
type lineResult struct {
	text string
	err  error
}

// Player is one connected participant. Identity is the post-deduplication
// name. The connection is read by a single pump goroutine for the player's
// whole lifetime; everyone else consumes lines from its channel, so no two
// rounds can ever touch the underlying reader at once.
type Player struct {
	Name   string
	Conn   net.Conn
	Active bool

	lines chan lineResult
	done  chan struct{}
	stop  sync.Once
}

func newPlayer(name string, conn net.Conn, rd *bufio.Reader) *Player {
	p := &Player{
		Name:   name,
		Conn:   conn,
		Active: true,
		lines:  make(chan lineResult),
		done:   make(chan struct{}),
	}
	if rd != nil {
		go p.pump(rd)
	}
	return p
}

// pump owns the connection reader. It closes the lines channel once the
// peer is gone, so later collections see the disconnect immediately.
func (p *Player) pump(rd *bufio.Reader) {
	for {
		text, err := wire.ReadLine(rd, answerMaxLine)
		if err != nil {
			select {
			case p.lines <- lineResult{err: err}:
			case <-p.done:
			}
			close(p.lines)
			return
		}
		select {
		case p.lines <- lineResult{text: text}:
		case <-p.done:
			return
		}
	}
}

// Close shuts down the connection and releases the reader pump. Idempotent.
func (p *Player) Close() {
	p.stop.Do(func() {
		close(p.done)
		if p.Conn != nil {
			_ = p.Conn.Close()
		}
	})
}
