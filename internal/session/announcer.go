package session

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"
)

// Announcer drives the UDP offer broadcast during the join window. It sends
// one offer per cadence tick and stops once the player count has not grown
// for the grace period, provided at least one player has joined; with no
// players it broadcasts indefinitely.
type Announcer struct {
	Offer   []byte
	Addr    string
	Cadence time.Duration
	Grace   time.Duration
	// Count reports the current number of registered players.
	Count func() int
}

// Run broadcasts until the join window closes or ctx ends. Send failures
// are transient: they are logged and the next tick retries.
func (a *Announcer) Run(ctx context.Context) error {
	d := net.Dialer{Control: setBroadcast}
	conn, err := d.Dial("udp4", a.Addr)
	if err != nil {
		return fmt.Errorf("open broadcast socket %s: %w", a.Addr, err)
	}
	defer conn.Close()

	lastCount := a.Count()
	lastGrowth := time.Now()

	ticker := time.NewTicker(a.Cadence)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if _, err := conn.Write(a.Offer); err != nil {
				log.Printf("broadcast offer: %v", err)
			}
			count := a.Count()
			if count > lastCount {
				lastCount = count
				lastGrowth = now
			}
			if count > 0 && now.Sub(lastGrowth) >= a.Grace {
				log.Printf("join window closed with %d players", count)
				return nil
			}
		}
	}
}
