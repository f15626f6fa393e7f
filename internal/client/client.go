// Package client implements the player side of the game: discover a
// server over UDP offers, join over TCP, relay server lines, and answer
// questions through a pluggable provider.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/omerad1/TriviaKings/internal/wire"
)

const serverMaxLine = 1024

// Config carries the client's environment-driven settings.
type Config struct {
	PlayerName   string        `env:"TRIVIA_PLAYER_NAME"`
	UDPPort      int           `env:"TRIVIA_UDP_PORT" envDefault:"13117"`
	ServerName   string        `env:"TRIVIA_SERVER_NAME"`
	AnswerWindow time.Duration `env:"TRIVIA_ANSWER_WINDOW" envDefault:"10s"`
}

// Client joins game sessions and plays them with its answer provider.
type Client struct {
	Name     string
	Provider AnswerProvider
	// UDPPort is the discovery port offers arrive on.
	UDPPort int
	// ServerName, when set, ignores offers from other servers.
	ServerName string
	// AnswerWindow bounds how long the provider gets per question.
	AnswerWindow time.Duration
	// Out receives the server's lines. Defaults to discarding them.
	Out io.Writer
}

// Run discovers servers and plays games until ctx ends. A finished or
// broken game sends the client back to listening for offers.
func (c *Client) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		log.Printf("%s: listening for offers on udp port %d", c.Name, c.UDPPort)
		addr, offer, err := c.awaitOffer(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		log.Printf("%s: received offer from %s at %s", c.Name, offer.ServerName, addr)
		if err := c.Play(ctx, addr); err != nil {
			log.Printf("%s: game ended: %v", c.Name, err)
		}
	}
	return nil
}

// awaitOffer blocks until a well-formed offer arrives and returns the
// game server's TCP address. The discovery socket is opened with port
// reuse so several clients on one host can listen side by side.
func (c *Client) awaitOffer(ctx context.Context) (string, wire.Offer, error) {
	lc := net.ListenConfig{Control: reusePort}
	pc, err := lc.ListenPacket(ctx, "udp4", fmt.Sprintf(":%d", c.UDPPort))
	if err != nil {
		return "", wire.Offer{}, fmt.Errorf("listen for offers: %w", err)
	}
	conn := pc.(*net.UDPConn)
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	return receiveOffer(conn, c.ServerName)
}

func receiveOffer(conn *net.UDPConn, serverName string) (string, wire.Offer, error) {
	buf := make([]byte, 128)
	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			return "", wire.Offer{}, fmt.Errorf("receive offer: %w", err)
		}
		offer, err := wire.DecodeOffer(buf[:n])
		if err != nil {
			log.Printf("ignoring datagram from %v: %v", from, err)
			continue
		}
		if serverName != "" && offer.ServerName != serverName {
			continue
		}
		addr := net.JoinHostPort(from.IP.String(), strconv.Itoa(int(offer.TCPPort)))
		return addr, offer, nil
	}
}

// Play joins the server at addr and plays one game to its end.
func (c *Client) Play(ctx context.Context, addr string) error {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("join %s: %w", addr, err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	if err := wire.WriteLine(conn, c.Name); err != nil {
		return fmt.Errorf("send name: %w", err)
	}

	rd := bufio.NewReader(conn)
	for {
		line, err := wire.ReadLine(rd, serverMaxLine)
		if err != nil {
			if errors.Is(err, wire.ErrDisconnected) {
				return nil
			}
			return fmt.Errorf("read from server: %w", err)
		}
		c.print(line)

		switch {
		case strings.Contains(line, wire.GameOverMarker):
			return nil
		case strings.Contains(line, wire.QuestionMarker):
			answer, err := c.Provider.Provide(line, time.Now().Add(c.AnswerWindow))
			if err != nil {
				return fmt.Errorf("answer provider: %w", err)
			}
			if answer == "" {
				continue
			}
			if err := wire.WriteLine(conn, answer); err != nil {
				return fmt.Errorf("send answer: %w", err)
			}
		}
	}
}

func (c *Client) print(line string) {
	if c.Out == nil {
		return
	}
	fmt.Fprintln(c.Out, line)
}
