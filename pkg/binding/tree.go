package binding

import (
	"errors"
	"strings"

	"github.com/orgrinrt/tomlfuse/pkg/document"
	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
	"github.com/orgrinrt/tomlfuse/pkg/logging"
	"github.com/orgrinrt/tomlfuse/pkg/rules"
)

// Entry is one node of the binding tree. The block roots carry a nil
// document node; every other entry references the read-only document node
// it binds, under its output identifier (the sanitized segment name, or
// the alias target for alias-derived entries).
type Entry struct {
	Name     string
	Doc      string
	Node     *document.Node
	Children []*Entry
}

// Kind returns the entry's node kind; block roots are table-like
func (e *Entry) Kind() document.Kind {
	if e.Node == nil {
		return document.KindTable
	}
	return e.Node.Kind
}

// Child returns the child entry with the given identifier
func (e *Entry) Child(name string) (*Entry, bool) {
	for _, c := range e.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Tree is the final, validated output: one namespace per block, handed
// whole to the emitter and never mutated after Build returns.
type Tree struct {
	Namespaces []*Entry
}

// Namespace returns the block namespace with the given name
func (t *Tree) Namespace(name string) (*Entry, bool) {
	for _, ns := range t.Namespaces {
		if ns.Name == name {
			return ns, true
		}
	}
	return nil, false
}

// Build runs the whole resolution: for each block in declaration order it
// resolves the selection, resolves aliases against the selection's
// top-level names, validates every admitted node and grafts the results
// into a namespace mirroring the document's table nesting. Blocks left
// empty after pruning produce no namespace at all.
func Build(blocks []rules.Block, doc *document.Document) (*Tree, error) {
	logger := logging.GetLogger("binding.tree")

	tree := &Tree{}
	blockNames := make(map[string]bool, len(blocks))
	for _, block := range blocks {
		if blockNames[block.Name] {
			return nil, fuseerr.Newf(fuseerr.ErrAmbiguousBinding,
				"duplicate namespace block %q", block.Name).WithBlock(block.Name)
		}
		blockNames[block.Name] = true

		ns, err := buildNamespace(block, doc)
		if err != nil {
			return nil, err
		}
		if ns == nil {
			logger.Debug().Str("block", block.Name).Msg("Block selected nothing, namespace pruned")
			continue
		}
		tree.Namespaces = append(tree.Namespaces, ns)
	}

	logger.Debug().Int("namespaces", len(tree.Namespaces)).Msg("Binding tree built")
	return tree, nil
}

func buildNamespace(block rules.Block, doc *document.Document) (*Entry, error) {
	selection := Select(block, doc)
	aliases, err := ResolveAliases(block, doc, selection.TopLevelNames())
	if err != nil {
		return nil, err
	}

	// validate only what was admitted: every selected non-table node.
	// Excluded descendants of a selected table are absent from the
	// selection and must not abort the resolution.
	for _, path := range selection.Paths() {
		node, ok := doc.Resolve(path)
		if !ok || node.Kind == document.KindTable {
			continue
		}
		if err := Validate(node, path); err != nil {
			return nil, wrapBlock(err, block.Name)
		}
	}
	for _, alias := range aliases {
		if err := Validate(alias.Node, alias.Source); err != nil {
			return nil, wrapBlock(err, block.Name)
		}
	}

	root := &Entry{Name: block.Name}
	arena := map[string]*Entry{"": root}

	for _, path := range selection.Paths() {
		if err := graft(arena, doc, block.Name, path); err != nil {
			return nil, err
		}
	}
	for _, alias := range aliases {
		if _, taken := arena[alias.Target]; taken {
			return nil, fuseerr.Newf(fuseerr.ErrAmbiguousBinding,
				"alias %q collides with an existing entry", alias.Target).
				WithBlock(block.Name).WithPath(alias.Source.String())
		}
		entry := expand(alias.Target, alias.Node)
		arena[alias.Target] = entry
		root.Children = append(root.Children, entry)
	}

	pruneEmpty(root)
	if len(root.Children) == 0 {
		return nil, nil
	}
	return root, nil
}

// graft ensures the namespace chain for path exists, creating shared
// intermediate entries on demand so two selections under one table
// ancestor merge rather than duplicate.
func graft(arena map[string]*Entry, doc *document.Document, blockName string, path document.Path) error {
	for i := 1; i <= len(path); i++ {
		pos := strings.Join(path[:i], ".")
		if existing, ok := arena[pos]; ok {
			if existing.Kind() != document.KindTable && i < len(path) {
				return fuseerr.Newf(fuseerr.ErrAmbiguousBinding,
					"entry %q is both a value and a namespace", pos).
					WithBlock(blockName).WithPath(path.String())
			}
			continue
		}

		node, ok := doc.Resolve(path[:i])
		if !ok {
			return fuseerr.Newf(fuseerr.ErrInternal,
				"selected path %s no longer resolves", path[:i]).
				WithBlock(blockName).WithPath(path.String())
		}
		entry := &Entry{Name: node.Name, Doc: node.Comment, Node: node}
		arena[pos] = entry

		parent := arena[strings.Join(path[:i-1], ".")]
		parent.Children = append(parent.Children, entry)
	}
	return nil
}

// expand copies a node and its whole subtree into entries; alias-derived
// table bindings bring everything under the renamed root.
func expand(name string, node *document.Node) *Entry {
	entry := &Entry{Name: name, Doc: node.Comment, Node: node}
	if node.Kind == document.KindTable {
		for _, child := range node.Children {
			entry.Children = append(entry.Children, expand(child.Name, child))
		}
	}
	return entry
}

// pruneEmpty drops table entries that ended up with no children, so fully
// excluded subtrees never surface as empty namespaces.
func pruneEmpty(e *Entry) {
	kept := e.Children[:0]
	for _, child := range e.Children {
		if child.Kind() == document.KindTable {
			pruneEmpty(child)
			if len(child.Children) == 0 {
				continue
			}
		}
		kept = append(kept, child)
	}
	e.Children = kept
}

func wrapBlock(err error, blockName string) error {
	var fe *fuseerr.FuseError
	if errors.As(err, &fe) {
		fe.WithBlock(blockName)
	}
	return err
}
