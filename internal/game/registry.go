package game

import (
	"bufio"
	"fmt"
	"net"
	"sync"
)

// Registry is the concurrency-safe set of connected players and the subset
// still eligible to answer. The active set is always a subset of the full
// set; both are guarded by one lock and every snapshot handed out is a copy.
type Registry struct {
	mu      sync.Mutex
	players []*Player
	active  map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]bool)}
}

// Register adds a player under the given display name, disambiguating
// collisions with a "(k)" suffix using the smallest free k. The whole
// operation holds the registry lock, so two concurrent registrations can
// never yield the same name. Returns the player and whether a rename
// occurred.
func (r *Registry) Register(name string, conn net.Conn, rd *bufio.Reader) (*Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	final := name
	for k := 1; r.taken(final); k++ {
		final = fmt.Sprintf("%s(%d)", name, k)
	}

	p := newPlayer(final, conn, rd)
	r.players = append(r.players, p)
	r.active[final] = true
	return p, final != name
}

func (r *Registry) taken(name string) bool {
	for _, p := range r.players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Kick removes a player from both sets. Idempotent.
func (r *Registry) Kick(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, q := range r.players {
		if q == p {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	delete(r.active, p.Name)
	p.Active = false
}

// SetActive replaces the active set wholesale with the given survivors.
func (r *Registry) SetActive(survivors []*Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = make(map[string]bool, len(survivors))
	for _, p := range survivors {
		r.active[p.Name] = true
	}
	for _, p := range r.players {
		p.Active = r.active[p.Name]
	}
}

// ActivePlayers returns a snapshot of the active set in registration order.
func (r *Registry) ActivePlayers() []*Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Player, 0, len(r.active))
	for _, p := range r.players {
		if r.active[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

// AllPlayers returns a snapshot of every registered player in registration
// order.
func (r *Registry) AllPlayers() []*Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Player, len(r.players))
	copy(out, r.players)
	return out
}

// Count returns the number of registered players.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// ActiveCount returns the number of active players.
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}
