package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/omerad1/TriviaKings/internal/game"
	"github.com/omerad1/TriviaKings/internal/wire"
)

const handshakeMaxLine = 64

// Acceptor accepts game connections for the duration of the join window and
// registers each peer after its name handshake. Every connection is handled
// on its own goroutine so one slow or broken handshake never stalls the
// accept loop or other peers.
type Acceptor struct {
	Listener  *net.TCPListener
	Registry  *game.Registry
	Handshake time.Duration
}

// Run accepts connections until ctx ends.
func (a *Acceptor) Run(ctx context.Context) error {
	for {
		// The short accept deadline doubles as the ctx poll interval.
		_ = a.Listener.SetDeadline(time.Now().Add(250 * time.Millisecond))
		conn, err := a.Listener.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				if ctx.Err() != nil {
					return nil
				}
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("accept: %v", err)
			continue
		}
		go a.handle(ctx, conn)
	}
}

func (a *Acceptor) handle(ctx context.Context, conn net.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(a.Handshake))
	rd := bufio.NewReader(conn)

	name, err := wire.ReadLine(rd, handshakeMaxLine)
	if err != nil {
		log.Printf("handshake from %v: %v", conn.RemoteAddr(), err)
		_ = conn.Close()
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		log.Printf("handshake from %v: empty player name", conn.RemoteAddr())
		_ = conn.Close()
		return
	}
	if ctx.Err() != nil {
		// Join window closed while the handshake was in flight.
		_ = conn.Close()
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	player, renamed := a.Registry.Register(name, conn, rd)
	log.Printf("player %s connected from %v", player.Name, conn.RemoteAddr())
	if renamed {
		notice := fmt.Sprintf("The name %s is taken, you will be known as %s", name, player.Name)
		if err := wire.WriteLine(conn, notice); err != nil {
			log.Printf("rename notice to %s: %v, kicked", player.Name, err)
			a.Registry.Kick(player)
			player.Close()
		}
	}
}
