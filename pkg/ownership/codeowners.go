package ownership

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule is one CODEOWNERS line.
type Rule struct {
	Pattern string   // Pattern as written
	Owners  []string // Owners in file order
	globs   []string // doublestar expansions of Pattern
}

// Ruleset is an ordered CODEOWNERS file. The last matching rule wins.
type Ruleset []Rule

// ParseCodeowners reads GitHub-style CODEOWNERS content: one
// "pattern owner..." per line, with blank lines and "#" comments ignored.
// A pattern without owners explicitly unowns matching files.
func ParseCodeowners(r io.Reader) (Ruleset, error) {
	var rules Ruleset
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if i := strings.Index(text, " #"); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		globs, err := expandPattern(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rules = append(rules, Rule{Pattern: fields[0], Owners: fields[1:], globs: globs})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// expandPattern translates a gitignore-style pattern into doublestar globs.
// Unanchored patterns match at any depth. A pattern ending in "/", or one
// whose last component has no wildcard, also matches the contents of a
// matching directory; "dir/*" matches direct children only.
func expandPattern(p string) ([]string, error) {
	dirOnly := strings.HasSuffix(p, "/")
	p = strings.TrimSuffix(p, "/")

	anchored := strings.HasPrefix(p, "/") || strings.Contains(p, "/")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return []string{"**"}, nil
	}
	if !anchored {
		p = "**/" + p
	}
	if !doublestar.ValidatePattern(p) {
		return nil, fmt.Errorf("invalid pattern %q", p)
	}
	if dirOnly {
		return []string{p + "/**"}, nil
	}
	if strings.ContainsAny(p[strings.LastIndex(p, "/")+1:], "*?[") {
		return []string{p}, nil
	}
	return []string{p, p + "/**"}, nil
}

// OwnerOf returns the first owner of the last rule matching relpath.
// Files no rule matches, or whose last rule lists no owner, are [Unowned].
func (rs Ruleset) OwnerOf(relpath string) string {
	relpath = filepath.ToSlash(relpath)
	for i := len(rs) - 1; i >= 0; i-- {
		if !rs[i].matches(relpath) {
			continue
		}
		if len(rs[i].Owners) == 0 {
			return Unowned
		}
		return rs[i].Owners[0]
	}
	return Unowned
}

func (r Rule) matches(relpath string) bool {
	for _, g := range r.globs {
		if ok, _ := doublestar.Match(g, relpath); ok {
			return true
		}
	}
	return false
}

// CodeownersProvider expands a CODEOWNERS file into a per-file mapping by
// walking the project root.
type CodeownersProvider struct {
	Root    string   // Project root directory
	File    string   // CODEOWNERS path; relative paths are joined to Root
	Include []string // Optional doublestar globs limiting which files are mapped
}

// FileOwnerships parses the CODEOWNERS file and assigns an owner to every
// included file under Root.
func (p CodeownersProvider) FileOwnerships() (Mapping, error) {
	path := p.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.Root, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open codeowners: %w", err)
	}
	defer f.Close()

	rules, err := ParseCodeowners(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	files, err := p.files()
	if err != nil {
		return nil, err
	}

	m := make(Mapping, len(files))
	for _, rel := range files {
		m[rel] = Record{Owner: rules.OwnerOf(rel)}
	}
	return m, nil
}

func (p CodeownersProvider) files() ([]string, error) {
	fsys := os.DirFS(p.Root)
	if len(p.Include) > 0 {
		seen := make(map[string]bool)
		var out []string
		for _, g := range p.Include {
			matches, err := doublestar.Glob(fsys, g, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", g, err)
			}
			for _, m := range matches {
				if !seen[m] {
					seen[m] = true
					out = append(out, m)
				}
			}
		}
		return out, nil
	}

	var out []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == "node_modules" {
				return fs.SkipDir
			}
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", p.Root, err)
	}
	return out, nil
}
