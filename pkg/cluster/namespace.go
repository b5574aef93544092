package cluster

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdviz/pkg/erd"
	"github.com/matzehuels/erdviz/pkg/ownership"
)

// Namespace label vocabulary shared with the cluster style decorator.
const (
	LabelUnknown = "unknown"
	LabelDefault = "NO-PACK, NO-OWNER"

	PrefixPack  = "pack:"
	PrefixOwner = "owner:"
	PrefixGem   = "gem:"
)

// Kind identifies which heuristic produced a namespace.
type Kind int

const (
	KindUnknown Kind = iota // no source file
	KindPack                // internal package root
	KindOwner               // ownership registry
	KindGem                 // external library root
	KindDefault             // none of the above
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindPack:
		return "pack"
	case KindOwner:
		return "owner"
	case KindGem:
		return "gem"
	case KindDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of classifying one entity.
type Resolution struct {
	Kind Kind
	Name string // Package, owner, or library name; empty for unknown/default
	Path string // Defining source file, if found
}

// Label renders the resolution in the shared label vocabulary.
func (r Resolution) Label() string {
	switch r.Kind {
	case KindPack:
		return PrefixPack + " " + r.Name
	case KindOwner:
		return PrefixOwner + " " + r.Name
	case KindGem:
		return PrefixGem + " " + r.Name
	case KindDefault:
		return LabelDefault
	default:
		return LabelUnknown
	}
}

// Root is a directory, found anywhere in a path, whose next component
// names a group. "/usr/src/app/packs/" captures "billing" from
// "/usr/src/app/packs/billing/models/invoice.rb".
type Root string

// Match returns the path component immediately following the root. The
// root may appear anywhere in path; the component must be non-empty and
// followed by a separator.
func (r Root) Match(path string) (string, bool) {
	prefix := filepath.ToSlash(string(r))
	if prefix == "" {
		return "", false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	path = filepath.ToSlash(path)

	for from := 0; from < len(path); {
		i := strings.Index(path[from:], prefix)
		if i < 0 {
			return "", false
		}
		rest := path[from+i+len(prefix):]
		if j := strings.IndexByte(rest, '/'); j > 0 {
			return rest[:j], true
		}
		from += i + 1
	}
	return "", false
}

func matchRoots(roots []Root, path string) (string, bool) {
	for _, r := range roots {
		if name, ok := r.Match(path); ok {
			return name, true
		}
	}
	return "", false
}

// Locator resolves a logical entity name to its defining source file.
type Locator interface {
	Locate(name string) (string, bool)
}

// OwnerLookup returns the recorded owner of a project-relative path.
type OwnerLookup interface {
	Owner(relpath string) (string, bool)
}

// Classifier assigns entities to namespaces. The heuristics run in a fixed
// order: package root, then ownership, then external library root, then the
// default label.
type Classifier struct {
	Locator     Locator     // Required for anything but "unknown"
	Owners      OwnerLookup // Defaults to ownership.Default()
	ProjectRoot string      // Stripped from paths before the ownership lookup
	PackRoots   []Root
	GemRoots    []Root
	Logger      *log.Logger
}

var _ erd.NamespaceResolver = (*Classifier)(nil)

// Classify resolves name through all heuristics.
func (c *Classifier) Classify(name string) Resolution {
	if c.Locator == nil {
		return Resolution{Kind: KindUnknown}
	}
	path, ok := c.Locator.Locate(name)
	if !ok || path == "" {
		return Resolution{Kind: KindUnknown}
	}

	if pack, ok := matchRoots(c.PackRoots, path); ok {
		return Resolution{Kind: KindPack, Name: pack, Path: path}
	}
	if owner, ok := c.owners().Owner(c.relative(path)); ok && owner != ownership.Unowned {
		return Resolution{Kind: KindOwner, Name: owner, Path: path}
	}
	if gem, ok := matchRoots(c.GemRoots, path); ok {
		return Resolution{Kind: KindGem, Name: gem, Path: path}
	}
	return Resolution{Kind: KindDefault, Path: path}
}

// Namespace returns the label for name.
func (c *Classifier) Namespace(name string) string {
	res := c.Classify(name)
	if c.Logger != nil {
		c.Logger.Debug("classified entity", "entity", name, "kind", res.Kind, "path", res.Path)
	}
	return res.Label()
}

func (c *Classifier) owners() OwnerLookup {
	if c.Owners != nil {
		return c.Owners
	}
	return ownership.Default()
}

// relative strips the project root from path, yielding the slash-separated
// key used by the ownership registry.
func (c *Classifier) relative(path string) string {
	path = filepath.ToSlash(path)
	root := strings.TrimSuffix(filepath.ToSlash(c.ProjectRoot), "/")
	if root == "" {
		return path
	}
	return strings.TrimPrefix(path, root+"/")
}
