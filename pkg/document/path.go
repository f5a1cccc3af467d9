package document

import (
	"strings"

	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
)

// Path is an ordered sequence of sanitized identifiers locating one node
// from the document root. Paths never contain wildcards.
type Path []string

// String renders the path in dotted form
func (p Path) String() string {
	return strings.Join(p, ".")
}

// IsRoot reports whether the path denotes the document root
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Child returns a new path extended by one segment
func (p Path) Child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// Parent returns the path without its final segment
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Last returns the final segment, or "" for the root
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// ParsePath parses a dotted literal path. Each segment is sanitized and
// must have identifier shape; wildcards are rejected.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fuseerr.New(fuseerr.ErrInvalidPattern, "empty path").WithPath(s)
	}
	segments := strings.Split(s, ".")
	path := make(Path, 0, len(segments))
	for _, seg := range segments {
		name := Sanitize(seg)
		if !ValidIdentifier(name) {
			return nil, fuseerr.Newf(fuseerr.ErrInvalidPattern,
				"path segment %q is not a valid identifier", seg).WithPath(s)
		}
		path = append(path, name)
	}
	return path, nil
}

// Sanitize maps a source key to its identifier form. The mapping is pure
// and deterministic: surrounding quotes are stripped and dashes become
// underscores. Two distinct sibling keys that sanitize to the same
// identifier are a fatal collision, detected at document build.
func Sanitize(key string) string {
	k := strings.Trim(key, `"'`)
	return strings.ReplaceAll(k, "-", "_")
}

// ValidIdentifier reports whether name is usable as a sanitized identifier
func ValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
