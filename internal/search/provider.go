package search

import "context"

// Provider is the contract every external event source implements.
//
// Search must never return a Go error for ordinary failure modes (HTTP
// error, timeout, malformed payload); those come back as Success=false with
// Err set. An unconfigured provider is not a failure: Search returns
// Success=true with zero events and makes no network call.
type Provider interface {
	// Name returns the provider identifier ("ticketmaster", "serpevents", ...)
	Name() string

	// Configured reports whether the provider has credentials to work with.
	Configured() bool

	// PageCap is the maximum number of records one page can carry.
	PageCap() int

	// SinglePageThreshold is the size at or below which Search issues
	// exactly one network call.
	SinglePageThreshold() int

	// Search executes one strategy against the provider for one page.
	Search(ctx context.Context, strategy SearchStrategy, loc Location, size, page int) *ProviderSearchResult
}

// Registry holds all registered event providers.
type Registry struct {
	providers []Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: []Provider{}}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// GetAll returns all registered providers.
func (r *Registry) GetAll() []Provider {
	return r.providers
}

// Get returns the provider with the given name, or nil.
func (r *Registry) Get(name string) Provider {
	for _, p := range r.providers {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// Count returns the number of registered providers.
func (r *Registry) Count() int {
	return len(r.providers)
}
