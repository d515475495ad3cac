package llm

import (
	"errors"
	"fmt"
	"sort"
)

// ErrProviderUnavailable is returned when no client is registered for a provider.
var ErrProviderUnavailable = errors.New("LLM provider not configured")

// Registry holds one client per configured provider.
type Registry struct {
	clients  map[Provider]Client
	fallback Provider
}

// NewRegistry registers clients under their own Provider(). The first client
// becomes the default unless SetDefault is called.
func NewRegistry(clients ...Client) *Registry {
	r := &Registry{clients: make(map[Provider]Client, len(clients))}
	for _, c := range clients {
		if c == nil {
			continue
		}
		r.Register(c)
	}
	return r
}

// Register adds or replaces the client for its provider.
func (r *Registry) Register(c Client) {
	p := c.Provider()
	if r.fallback == "" {
		r.fallback = p
	}
	r.clients[p] = c
}

// SetDefault selects the provider used when a caller names none.
func (r *Registry) SetDefault(p Provider) error {
	if _, ok := r.clients[p]; !ok {
		return fmt.Errorf("%w: %s", ErrProviderUnavailable, p)
	}
	r.fallback = p
	return nil
}

// Get returns the client for p. The empty provider selects the default.
func (r *Registry) Get(p Provider) (Client, error) {
	if p == "" {
		p = r.fallback
	}
	c, ok := r.clients[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, p)
	}
	return c, nil
}

// Default returns the default client, or nil when the registry is empty.
func (r *Registry) Default() Client {
	return r.clients[r.fallback]
}

// Has reports whether p is registered.
func (r *Registry) Has(p Provider) bool {
	_, ok := r.clients[p]
	return ok
}

// Providers lists the registered providers in sorted order.
func (r *Registry) Providers() []Provider {
	out := make([]Provider, 0, len(r.clients))
	for p := range r.clients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Close closes every client and returns the joined errors.
func (r *Registry) Close() error {
	var errs []error
	for _, c := range r.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
