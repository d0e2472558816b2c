package relay

import (
	"encoding/json"
	"sync"

	"labdesk/models"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Registry is the owned, lock-guarded record of live connections, keyed by
// connection id with the asserted role in the record. It is passed to every
// connection handler explicitly; there is no package-level instance.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Conn)}
}

// Add registers the connection. A second connection with the same id
// replaces the first, whose send channel is closed.
func (reg *Registry) Add(c *Conn) {
	reg.mu.Lock()
	if old, ok := reg.conns[c.ID]; ok {
		close(old.send)
	}
	reg.conns[c.ID] = c
	reg.mu.Unlock()
}

// Remove drops the connection and reports whether it was still registered
// (false when a replacement already took the id over).
func (reg *Registry) Remove(c *Conn) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	cur, ok := reg.conns[c.ID]
	if !ok || cur != c {
		return false
	}
	delete(reg.conns, c.ID)
	close(c.send)
	return true
}

func (reg *Registry) Get(id string) (*Conn, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	c, ok := reg.conns[id]
	return c, ok
}

// IDs lists the ids of all registered connections with the given role.
func (reg *Registry) IDs(role string) []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := []string{}
	for id, c := range reg.conns {
		if c.Role == role {
			ids = append(ids, id)
		}
	}
	return ids
}

// Broadcast sends the event to every connection with the given role.
// Clients that cannot keep up are skipped, not waited on.
func (reg *Registry) Broadcast(role string, ev models.RelayEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for _, c := range reg.conns {
		if c.Role != role {
			continue
		}
		select {
		case c.send <- data:
		default:
		}
	}
}

// Send delivers to a single connection id. Unknown targets are dropped
// silently; the relay makes no delivery guarantee.
func (reg *Registry) Send(id string, ev models.RelayEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	c, ok := reg.conns[id]
	if !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// opposite returns the pool a role's presence events go to.
func opposite(role string) string {
	if role == RoleAdmin {
		return RoleUser
	}
	return RoleAdmin
}
