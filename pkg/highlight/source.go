package highlight

import (
	"os"
	"sync"
)

// DefaultEnvKey is the environment variable holding the JSON rule array.
const DefaultEnvKey = "ERDVIZ_COLORS"

// RuleSource supplies the current color rules.
type RuleSource interface {
	Rules() ([]ColorRule, error)
}

// EnvSource reads and parses the rules from an environment variable on
// every call, so changes to the variable take effect immediately.
type EnvSource struct {
	Key string // Defaults to DefaultEnvKey
}

// Rules parses the current value of the environment variable.
// An unset variable is the empty rule set.
func (s EnvSource) Rules() ([]ColorRule, error) {
	key := s.Key
	if key == "" {
		key = DefaultEnvKey
	}
	return ParseRules(os.Getenv(key))
}

// StaticSource parses a fixed JSON string, e.g. from a config file.
type StaticSource string

// Rules parses the string.
func (s StaticSource) Rules() ([]ColorRule, error) {
	return ParseRules(string(s))
}

// CachedSource memoizes the parse of another source's raw value.
// The raw value is read on every call and reparsed only when it changes,
// so the result always reflects the latest configuration.
type CachedSource struct {
	Raw func() string

	mu    sync.Mutex
	last  string
	rules []ColorRule
	err   error
	valid bool
}

// NewCachedEnvSource caches the parse of the given environment variable.
func NewCachedEnvSource(key string) *CachedSource {
	if key == "" {
		key = DefaultEnvKey
	}
	return &CachedSource{Raw: func() string { return os.Getenv(key) }}
}

// Rules returns the cached rules if the raw value is unchanged.
func (s *CachedSource) Rules() ([]ColorRule, error) {
	raw := s.Raw()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid && raw == s.last {
		return s.rules, s.err
	}
	s.rules, s.err = ParseRules(raw)
	s.last = raw
	s.valid = true
	return s.rules, s.err
}
