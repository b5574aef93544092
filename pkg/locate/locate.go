// Package locate maps logical entity names to the source files that define
// them.
//
// An [Index] is built by scanning directory globs. Each matching file gets a
// logical name derived from its path below the glob's root, camelizing every
// component: a file "app/models/billing/invoice_line.rb" matched by
// "app/models/**/*.rb" is registered as "Billing::InvoiceLine".
package locate

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-openapi/inflect"
)

// Separator joins namespace components of a logical name.
const Separator = "::"

// Locator resolves a logical entity name to its defining file.
type Locator interface {
	Locate(name string) (string, bool)
}

// MapLocator is a fixed name to path table.
type MapLocator map[string]string

// Locate returns the path registered for name.
func (m MapLocator) Locate(name string) (string, bool) {
	p, ok := m[name]
	return p, ok && p != ""
}

// Index records every file known to define each logical name, in
// registration order. Not safe for concurrent mutation; lookups after
// construction are safe.
type Index struct {
	paths map[string][]string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{paths: make(map[string][]string)}
}

// Add registers path as defining name. Duplicate pairs are ignored.
func (ix *Index) Add(name, path string) {
	for _, p := range ix.paths[name] {
		if p == path {
			return
		}
	}
	ix.paths[name] = append(ix.paths[name], path)
}

// Locate returns the first registered path for name.
func (ix *Index) Locate(name string) (string, bool) {
	ps := ix.paths[name]
	if len(ps) == 0 {
		return "", false
	}
	return ps[0], true
}

// Paths returns every path registered for name.
func (ix *Index) Paths(name string) []string {
	return ix.paths[name]
}

// Len returns the number of distinct names.
func (ix *Index) Len() int { return len(ix.paths) }

// Scan builds an index from globs. Relative globs are resolved against
// root; absolute globs (e.g. an installed library directory) are used as
// is. Globs are scanned in order so earlier globs take precedence for
// names defined more than once.
func Scan(root string, globs []string) (*Index, error) {
	ix := NewIndex()
	for _, g := range globs {
		if err := ix.scan(root, g); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

func (ix *Index) scan(root, glob string) error {
	full := filepath.ToSlash(glob)
	if !path.IsAbs(full) {
		full = path.Join(filepath.ToSlash(root), full)
	}

	base, pattern := doublestar.SplitPattern(full)
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid glob %q", glob)
	}

	matches, err := doublestar.Glob(os.DirFS(filepath.FromSlash(base)), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("glob %q: %w", glob, err)
	}

	skip := nameRootDepth(pattern)
	for _, m := range matches {
		parts := strings.Split(m, "/")
		if len(parts) <= skip {
			continue
		}
		name := LogicalName(strings.Join(parts[skip:], "/"))
		if name == "" {
			continue
		}
		ix.Add(name, filepath.FromSlash(path.Join(base, m)))
	}
	return nil
}

// nameRootDepth returns how many leading components of a match belong to
// the glob's root rather than to the logical name: everything before the
// first "**", or everything but the file name when there is none.
func nameRootDepth(pattern string) int {
	parts := strings.Split(pattern, "/")
	for i, p := range parts {
		if p == "**" {
			return i
		}
	}
	return len(parts) - 1
}

// LogicalName converts a root-relative file path to a logical name:
// "billing/invoice_line.rb" becomes "Billing::InvoiceLine".
func LogicalName(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	var parts []string
	for _, p := range strings.Split(rel, "/") {
		if p == "" {
			continue
		}
		parts = append(parts, inflect.Camelize(p))
	}
	return strings.Join(parts, Separator)
}
