// Package ownership maps project-relative file paths to owning teams.
//
// A [Provider] computes the full mapping; a [Registry] invokes it at most
// once and serves lookups from the memoized result. A missing provider, or
// one that fails, leaves the registry permanently empty: absence of
// ownership data is never an error for callers.
package ownership

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Unowned is the owner value recorded for files no rule claims.
const Unowned = "UNOWNED"

// Record is the ownership entry for one file.
type Record struct {
	Owner string `json:"owner" yaml:"owner"`
}

// Mapping is keyed by slash-separated path relative to the project root.
type Mapping map[string]Record

// Provider computes the complete file ownership mapping.
type Provider interface {
	FileOwnerships() (Mapping, error)
}

// ProviderFunc adapts a function to [Provider].
type ProviderFunc func() (Mapping, error)

// FileOwnerships calls f.
func (f ProviderFunc) FileOwnerships() (Mapping, error) { return f() }

// Registry memoizes a provider's mapping. The mapping is computed on the
// first lookup and never refreshed. Safe for concurrent use.
type Registry struct {
	provider Provider
	logger   *log.Logger

	once    sync.Once
	mapping Mapping
}

// NewRegistry creates a registry backed by p. A nil p yields an empty
// registry; a nil logger uses log.Default().
func NewRegistry(p Provider, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{provider: p, logger: logger}
}

// Mapping returns the memoized mapping, computing it on first use.
// The returned map must not be modified.
func (r *Registry) Mapping() Mapping {
	r.once.Do(func() {
		r.mapping = Mapping{}
		if r.provider == nil {
			return
		}
		m, err := r.provider.FileOwnerships()
		if err != nil {
			r.logger.Warn("ownership registry unavailable", "err", err)
			return
		}
		if m != nil {
			r.mapping = m
		}
		r.logger.Debug("loaded ownership registry", "files", len(r.mapping))
	})
	return r.mapping
}

// Owner returns the recorded owner of relpath, which may be [Unowned].
func (r *Registry) Owner(relpath string) (string, bool) {
	rec, ok := r.Mapping()[relpath]
	if !ok || rec.Owner == "" {
		return "", false
	}
	return rec.Owner, true
}

var (
	defaultRegistry = NewRegistry(nil, nil)
	defaultMu       sync.RWMutex
)

// SetDefault replaces the process-wide registry. Call it once at startup,
// before any lookups.
func SetDefault(r *Registry) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if r != nil {
		defaultRegistry = r
	}
}

// Default returns the process-wide registry. Without a prior [SetDefault]
// it is permanently empty.
func Default() *Registry {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultRegistry
}

// Reset restores an empty process-wide registry.
// This is primarily useful for testing.
func Reset() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = NewRegistry(nil, nil)
}
