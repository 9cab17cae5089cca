package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Registry owns one cart per session. A cart is created by the first write for its
// session and lives as long as the process; reads never create one.
type Registry struct {
	mu          sync.Mutex
	carts       map[uuid.UUID]*Cart
	maxQuantity int
}

func NewRegistry(maxQuantity int) *Registry {
	return &Registry{carts: make(map[uuid.UUID]*Cart), maxQuantity: maxQuantity}
}

// Get returns the cart for sessionID, creating an empty one if needed.
func (r *Registry) Get(sessionID uuid.UUID) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[sessionID]
	if !ok {
		c = New(NewMemoryLineStore(), r.maxQuantity)
		r.carts[sessionID] = c
	}
	return c
}

// Lookup returns the cart for sessionID without creating one.
func (r *Registry) Lookup(sessionID uuid.UUID) (*Cart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[sessionID]
	return c, ok
}

// Len returns the number of sessions holding a cart.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}
