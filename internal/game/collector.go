package game

import (
	"time"
)

// Answer is one player's response to a round. Received distinguishes a real
// answer (including the empty string) from a disconnect or timeout.
type Answer struct {
	Text     string
	Received bool
}

// Collector fans a question's answer collection out to every active player
// and fans the results in behind a single absolute deadline. It never reads
// connections itself; each player's pump goroutine owns that.
type Collector struct{}

// Collect waits for one line from every player's pump, until all have
// delivered or the deadline elapses, whichever comes first. The returned map
// has exactly one entry per player: a zero-value Answer marks a disconnect,
// error, or timeout.
//
// Waiters still pending at the deadline are cancelled; a late line stays
// with its pump until the next round flushes it, so it cannot race the
// returned map.
func (c *Collector) Collect(players []*Player, window time.Duration) map[string]Answer {
	type reply struct {
		name string
		ans  Answer
	}
	replies := make(chan reply, len(players))
	cancel := make(chan struct{})
	defer close(cancel)

	for _, p := range players {
		p := p
		go func() {
			select {
			case res, ok := <-p.lines:
				if !ok || res.err != nil {
					replies <- reply{name: p.Name}
					return
				}
				replies <- reply{name: p.Name, ans: Answer{Text: res.text, Received: true}}
			case <-cancel:
			}
		}()
	}

	answers := make(map[string]Answer, len(players))
	timer := time.NewTimer(window)
	defer timer.Stop()

	for pending := len(players); pending > 0; {
		select {
		case rep := <-replies:
			answers[rep.name] = rep.ans
			pending--
		case <-timer.C:
			// Replies already queued beat the deadline; drain them,
			// then abandon whatever is still outstanding.
			for pending > 0 {
				select {
				case rep := <-replies:
					answers[rep.name] = rep.ans
					pending--
				default:
					pending = 0
				}
			}
		}
	}

	for _, p := range players {
		if _, ok := answers[p.Name]; !ok {
			answers[p.Name] = Answer{}
		}
	}
	return answers
}

// Flush discards lines sent between rounds, so a late answer to the
// previous question is never graded against the next one. Called before the
// next question is broadcast.
func (c *Collector) Flush(players []*Player) {
	for _, p := range players {
		for drained := false; !drained; {
			select {
			case _, ok := <-p.lines:
				if !ok {
					drained = true
				}
			default:
				drained = true
			}
		}
	}
}
