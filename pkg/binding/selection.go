// Package binding implements the selection and alias-resolution engine:
// it replays each namespace block's ordered rules against the document
// model, validates the admitted nodes and grafts them into the final
// binding tree handed to code emission.
package binding

import (
	"github.com/orgrinrt/tomlfuse/pkg/document"
	"github.com/orgrinrt/tomlfuse/pkg/logging"
	"github.com/orgrinrt/tomlfuse/pkg/rules"
)

// SelectionSet is the per-block set of selected paths, built by replaying
// the block's patterns in declaration order. Membership is a set; the
// insertion order is kept so downstream output stays deterministic.
type SelectionSet struct {
	order  []document.Path
	member map[string]bool
}

func newSelectionSet() *SelectionSet {
	return &SelectionSet{member: make(map[string]bool)}
}

func (s *SelectionSet) add(p document.Path) {
	key := p.String()
	if !s.member[key] {
		s.member[key] = true
		s.order = append(s.order, p)
	}
}

func (s *SelectionSet) remove(p document.Path) {
	delete(s.member, p.String())
}

// Contains reports whether the path is currently selected
func (s *SelectionSet) Contains(p document.Path) bool {
	return s.member[p.String()]
}

// Len returns the number of selected paths
func (s *SelectionSet) Len() int {
	return len(s.member)
}

// Paths returns the selected paths in first-selection order. A path that
// was removed and later re-added keeps its original position only if the
// re-add happened through a fresh inclusion, which appends it anew.
func (s *SelectionSet) Paths() []document.Path {
	out := make([]document.Path, 0, len(s.member))
	emitted := make(map[string]bool, len(s.member))
	for _, p := range s.order {
		key := p.String()
		if s.member[key] && !emitted[key] {
			emitted[key] = true
			out = append(out, p)
		}
	}
	return out
}

// TopLevelNames returns the set of identifiers the selection implies at
// the block's root scope: the first segment of every selected path.
func (s *SelectionSet) TopLevelNames() map[string]bool {
	names := make(map[string]bool)
	for _, p := range s.Paths() {
		names[p[0]] = true
	}
	return names
}

// Select replays the block's patterns in declaration order against the
// document. An inclusion that matches a table adds the table and its whole
// subtree; an exclusion removes whatever of the matched subtree is
// selected at the moment it runs. A pattern with zero matches is a no-op
// for inclusion and exclusion alike: later rules always win over earlier
// ones for the paths they actually touch.
func Select(block rules.Block, doc *document.Document) *SelectionSet {
	logger := logging.GetLogger("binding.select")

	set := newSelectionSet()
	for _, pattern := range block.Patterns {
		matches := rules.Match(pattern, doc)
		for _, path := range matches {
			node, ok := doc.Resolve(path)
			if !ok {
				continue
			}
			if pattern.Negated {
				walkSubtree(node, path, set.remove)
			} else {
				walkSubtree(node, path, set.add)
			}
		}
		logger.Trace().
			Str("block", block.Name).
			Stringer("pattern", pattern).
			Int("matches", len(matches)).
			Int("selected", set.Len()).
			Msg("Applied pattern")
	}

	logger.Debug().
		Str("block", block.Name).
		Int("patterns", len(block.Patterns)).
		Int("selected", set.Len()).
		Msg("Selection resolved")
	return set
}

// walkSubtree applies fn to the path and, for tables, every descendant
// path in document child order.
func walkSubtree(node *document.Node, path document.Path, fn func(document.Path)) {
	fn(path)
	if node.Kind != document.KindTable {
		return
	}
	for _, child := range node.Children {
		walkSubtree(child, path.Child(child.Name), fn)
	}
}
