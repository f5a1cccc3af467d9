// Package rules holds the declarative rule model driving the binding
// engine: glob-style patterns, alias rules and namespace blocks, plus the
// matcher that evaluates one pattern against a document.
package rules

import (
	"strings"

	"github.com/orgrinrt/tomlfuse/pkg/document"
	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
)

// Segment is one element of a pattern: either a literal identifier or a
// single-level wildcard.
type Segment struct {
	Literal  string
	Wildcard bool
}

// Pattern is an ordered segment sequence with an optional negation flag.
// A wildcard matches exactly one path segment at its position; there is
// no recursive matching.
type Pattern struct {
	Segments []Segment
	Negated  bool
}

// String reconstructs the pattern text for diagnostics
func (p Pattern) String() string {
	var b strings.Builder
	if p.Negated {
		b.WriteByte('!')
	}
	for i, seg := range p.Segments {
		if i > 0 {
			b.WriteByte('.')
		}
		if seg.Wildcard {
			b.WriteByte('*')
		} else {
			b.WriteString(seg.Literal)
		}
	}
	return b.String()
}

// ParsePattern parses a dot-separated pattern string with an optional
// leading exclusion marker. Literal segments are sanitized the same way
// document keys are. Recursive wildcards and collection groups are
// unsupported and rejected outright.
func ParsePattern(s string) (Pattern, error) {
	text := strings.TrimSpace(s)
	var p Pattern
	if strings.HasPrefix(text, "!") {
		p.Negated = true
		text = strings.TrimSpace(text[1:])
	}
	if text == "" {
		return Pattern{}, fuseerr.New(fuseerr.ErrInvalidPattern, "empty pattern").WithPattern(s)
	}

	for _, seg := range strings.Split(text, ".") {
		switch {
		case seg == "*":
			p.Segments = append(p.Segments, Segment{Wildcard: true})
		case seg == "**":
			return Pattern{}, fuseerr.New(fuseerr.ErrInvalidPattern,
				"recursive wildcard '**' is not supported").WithPattern(s)
		case strings.ContainsAny(seg, "{}[]|()"):
			return Pattern{}, fuseerr.New(fuseerr.ErrInvalidPattern,
				"collection groups are not supported").WithPattern(s)
		case strings.Contains(seg, "*"):
			return Pattern{}, fuseerr.Newf(fuseerr.ErrInvalidPattern,
				"segment %q mixes wildcard and literal text", seg).WithPattern(s)
		default:
			name := document.Sanitize(seg)
			if !document.ValidIdentifier(name) {
				return Pattern{}, fuseerr.Newf(fuseerr.ErrInvalidPattern,
					"segment %q is not a valid identifier", seg).WithPattern(s)
			}
			p.Segments = append(p.Segments, Segment{Literal: name})
		}
	}
	return p, nil
}

// Match evaluates the pattern against the document and returns every path
// reached after consuming all segments, in document child order. A matched
// table path stands for itself only; subtree expansion is the selection
// resolver's concern. Matching ignores the negation flag.
func Match(p Pattern, doc *document.Document) []document.Path {
	frontier := []frame{{node: doc.Root, path: nil}}
	for _, seg := range p.Segments {
		var next []frame
		for _, f := range frontier {
			if f.node.Kind != document.KindTable {
				continue
			}
			if seg.Wildcard {
				for _, child := range f.node.Children {
					next = append(next, frame{node: child, path: f.path.Child(child.Name)})
				}
				continue
			}
			if child, ok := f.node.Child(seg.Literal); ok {
				next = append(next, frame{node: child, path: f.path.Child(seg.Literal)})
			}
		}
		frontier = next
		if len(frontier) == 0 {
			return nil
		}
	}

	paths := make([]document.Path, 0, len(frontier))
	for _, f := range frontier {
		paths = append(paths, f.path)
	}
	return paths
}

type frame struct {
	node *document.Node
	path document.Path
}
