package tree

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIgnore lists the version-control and cache directories skipped
// when no ignore patterns are configured
var DefaultIgnore = []string{
	"RCS", "CVS", "tags", ".git", ".hg", ".bzr", "_darcs", "__pycache__",
}

// Matcher decides whether an entry is left out of the comparison.
// Patterns support:
//   - base name globs: *.tmp, .git
//   - directory patterns: build/ (the directory and everything below it)
//   - path globs: docs/*.md, docs/**/*.md, matched against the full relative path
//   - any-depth globs: **/testdata, **/gen/*.go
type Matcher struct {
	names []string
	dirs  []string
	paths []string
}

// NewMatcher compiles ignore patterns. Malformed globs are dropped.
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" || !doublestar.ValidatePattern(p) {
			continue
		}
		switch {
		case strings.HasSuffix(p, "/"):
			m.dirs = append(m.dirs, strings.TrimSuffix(p, "/"))
		case strings.Contains(p, "/"):
			m.paths = append(m.paths, p)
		default:
			m.names = append(m.names, p)
		}
	}
	return m
}

// Empty reports whether the matcher has no patterns
func (m *Matcher) Empty() bool {
	return len(m.names)+len(m.dirs)+len(m.paths) == 0
}

// Match reports whether the entry at relativePath is ignored
func (m *Matcher) Match(relativePath string, isDir bool) bool {
	rel := filepath.ToSlash(relativePath)
	base := path.Base(rel)

	for _, p := range m.names {
		if doublestar.MatchUnvalidated(p, base) {
			return true
		}
	}

	if isDir {
		for _, p := range m.dirs {
			if doublestar.MatchUnvalidated(p, base) || doublestar.MatchUnvalidated(p, rel) {
				return true
			}
		}
	}

	for _, p := range m.paths {
		if doublestar.MatchUnvalidated(p, rel) {
			return true
		}
	}

	return false
}
