package binding

import (
	"strings"

	"github.com/orgrinrt/tomlfuse/pkg/document"
	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
)

// Validate checks type homogeneity for a candidate node before it is
// admitted into the binding tree. Every array must hold elements of one
// kind; array-of-table elements must additionally agree on the kind of
// every shared child identifier at any depth. Scalars always pass,
// tables recurse.
// Any violation is fatal to the whole resolution.
func Validate(node *document.Node, path document.Path) error {
	switch node.Kind {
	case document.KindTable:
		for _, child := range node.Children {
			if err := Validate(child, path.Child(child.Name)); err != nil {
				return err
			}
		}
		return nil
	case document.KindArray:
		return validateArray(node, path)
	default:
		return nil
	}
}

func validateArray(node *document.Node, path document.Path) error {
	if len(node.Children) == 0 {
		return nil
	}

	kinds := make(map[document.Kind]bool)
	for _, elem := range node.Children {
		kinds[elem.Kind] = true
	}
	if len(kinds) > 1 {
		return fuseerr.Newf(fuseerr.ErrHeterogeneousArray,
			"array %s mixes element kinds: %s", path, kindList(kinds)).
			WithPath(path.String())
	}

	// uniform element kind from here on
	switch node.Children[0].Kind {
	case document.KindTable:
		shape := make(map[string]document.Kind)
		for _, elem := range node.Children {
			if err := mergeShape(path, "", elem, shape); err != nil {
				return err
			}
			if err := Validate(elem, path); err != nil {
				return err
			}
		}
	case document.KindArray:
		var elemKind document.Kind
		seen := false
		for _, elem := range node.Children {
			if err := validateArray(elem, path); err != nil {
				return err
			}
			if len(elem.Children) == 0 {
				continue
			}
			k := elem.Children[0].Kind
			if seen && k != elemKind {
				return fuseerr.Newf(fuseerr.ErrHeterogeneousArray,
					"array %s has nested arrays of differing element kinds: %s vs %s",
					path, elemKind, k).
					WithPath(path.String())
			}
			elemKind, seen = k, true
		}
	}
	return nil
}

// mergeShape folds one element table into the accumulated kind map,
// keyed by dotted path relative to the array, and recurses through child
// tables. Elements must agree on the kind of every shared identifier at
// any depth; identifiers only some elements carry are fine.
func mergeShape(path document.Path, prefix string, table *document.Node, shape map[string]document.Kind) error {
	for _, child := range table.Children {
		key := child.Name
		if prefix != "" {
			key = prefix + "." + child.Name
		}
		if prev, seen := shape[key]; seen && prev != child.Kind {
			return fuseerr.Newf(fuseerr.ErrHeterogeneousArray,
				"array %s has tables that disagree on the kind of %q: %s vs %s",
				path, key, prev, child.Kind).
				WithPath(path.String())
		}
		shape[key] = child.Kind
		if child.Kind == document.KindTable {
			if err := mergeShape(path, key, child, shape); err != nil {
				return err
			}
		}
	}
	return nil
}

func kindList(kinds map[document.Kind]bool) string {
	names := make([]string, 0, len(kinds))
	for k := document.KindTable; k <= document.KindDateTime; k++ {
		if kinds[k] {
			names = append(names, k.String())
		}
	}
	return strings.Join(names, ", ")
}
