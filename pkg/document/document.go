// Package document holds the read-only in-memory model of a parsed TOML
// source: a tree of typed nodes keyed by sanitized identifiers, each
// carrying its original key and any doc comment captured from the text.
package document

import (
	"math"
	"sort"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
	"github.com/orgrinrt/tomlfuse/pkg/logging"
)

// Kind discriminates the closed set of node kinds
type Kind int

const (
	KindTable Kind = iota
	KindArray
	KindString
	KindInteger
	KindFloat
	KindBool
	KindDateTime
)

// String returns the kind name used in diagnostics
func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// IsScalar reports whether the kind is one of the scalar kinds
func (k Kind) IsScalar() bool {
	return k != KindTable && k != KindArray
}

// Node is one document element. Table children and array elements are
// ordered; scalar nodes carry their decoded value
// (string, int64, float64, bool or time.Time).
type Node struct {
	Kind     Kind
	Key      string // original source key, pre-sanitization
	Name     string // sanitized identifier
	Comment  string
	Value    interface{}
	Children []*Node
}

// Child returns the table child with the given sanitized identifier
func (n *Node) Child(name string) (*Node, bool) {
	if n.Kind != KindTable {
		return nil, false
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Document is the read-only model handed to the engine. It is never
// mutated after Parse returns.
type Document struct {
	Root *Node
}

// Parse builds a document model from raw TOML text. Values and structure
// come from go-toml; comment text and key order come from a single pass
// over the source lines, since the grammar layer drops both.
func Parse(data []byte) (*Document, error) {
	logger := logging.GetLogger("document")

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fuseerr.Wrap(err, fuseerr.ErrMalformedDocument, "failed to parse document")
	}

	l := scanLayout(string(data))

	root, err := buildTable("", "", raw, l)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("topLevelKeys", len(root.Children)).
		Int("commentedPaths", len(l.comments)).
		Msg("Document model built")

	return &Document{Root: root}, nil
}

// Resolve walks literal segments from the root. Returns false on any
// missing segment.
func (d *Document) Resolve(path Path) (*Node, bool) {
	node := d.Root
	for _, seg := range path {
		next, ok := node.Child(seg)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}

// Children returns the ordered (identifier, node) pairs of a table node
func (d *Document) Children(path Path) ([]*Node, error) {
	node, ok := d.Resolve(path)
	if !ok {
		return nil, fuseerr.Newf(fuseerr.ErrMalformedDocument, "path %s does not exist", path).WithPath(path.String())
	}
	if node.Kind != KindTable {
		return nil, fuseerr.Newf(fuseerr.ErrNotATable, "node at %s is a %s, not a table", path, node.Kind).WithPath(path.String())
	}
	return node.Children, nil
}

// buildTable converts one raw table into a node, ordering children by
// first appearance in the source and falling back to key order for
// children the layout scanner cannot see (inline table contents).
func buildTable(key, path string, raw map[string]interface{}, l *layout) (*Node, error) {
	node := &Node{
		Kind:    KindTable,
		Key:     key,
		Name:    Sanitize(key),
		Comment: l.commentFor(path),
	}

	type childEntry struct {
		key  string
		name string
		idx  int
	}
	entries := make([]childEntry, 0, len(raw))
	byName := make(map[string]string, len(raw))
	for k := range raw {
		name := Sanitize(k)
		if prev, dup := byName[name]; dup {
			return nil, fuseerr.Newf(fuseerr.ErrSanitizeCollision,
				"keys %q and %q both sanitize to %q", prev, k, name).
				WithPath(joinPath(path, name))
		}
		byName[name] = k
		entries = append(entries, childEntry{key: k, name: name, idx: l.orderIndex(path, name)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.idx >= 0 && b.idx >= 0:
			return a.idx < b.idx
		case a.idx >= 0:
			return true
		case b.idx >= 0:
			return false
		default:
			return a.key < b.key
		}
	})

	for _, e := range entries {
		childPath := joinPath(path, e.name)
		child, err := buildValue(e.key, childPath, raw[e.key], l)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// buildValue converts one raw decoded value into a node
func buildValue(key, path string, raw interface{}, l *layout) (*Node, error) {
	switch v := raw.(type) {
	case map[string]interface{}:
		return buildTable(key, path, v, l)
	case []interface{}:
		return buildArray(key, path, v, l)
	case []map[string]interface{}:
		// go-toml decodes arrays of tables into this shape
		generic := make([]interface{}, len(v))
		for i, m := range v {
			generic[i] = m
		}
		return buildArray(key, path, generic, l)
	default:
		return buildScalar(key, path, raw, l)
	}
}

func buildArray(key, path string, raw []interface{}, l *layout) (*Node, error) {
	node := &Node{
		Kind:    KindArray,
		Key:     key,
		Name:    Sanitize(key),
		Comment: l.commentFor(path),
	}
	for _, elem := range raw {
		// elements are anonymous; they share the array's path for layout
		child, err := buildValue("", path, elem, l)
		if err != nil {
			return nil, err
		}
		child.Comment = ""
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func buildScalar(key, path string, raw interface{}, l *layout) (*Node, error) {
	node := &Node{
		Key:     key,
		Name:    Sanitize(key),
		Comment: l.commentFor(path),
	}
	switch v := raw.(type) {
	case string:
		node.Kind = KindString
		node.Value = v
	case bool:
		node.Kind = KindBool
		node.Value = v
	case int64:
		node.Kind = KindInteger
		node.Value = v
	case uint64:
		if v > math.MaxInt64 {
			return nil, fuseerr.Newf(fuseerr.ErrMalformedDocument,
				"integer at %s overflows int64", path).WithPath(path)
		}
		node.Kind = KindInteger
		node.Value = int64(v)
	case float64:
		node.Kind = KindFloat
		node.Value = v
	case time.Time:
		node.Kind = KindDateTime
		node.Value = v
	case toml.LocalDateTime:
		node.Kind = KindDateTime
		node.Value = v.AsTime(time.UTC)
	case toml.LocalDate:
		node.Kind = KindDateTime
		node.Value = v.AsTime(time.UTC)
	case toml.LocalTime:
		node.Kind = KindDateTime
		node.Value = time.Date(0, time.January, 1, v.Hour, v.Minute, v.Second, v.Nanosecond, time.UTC)
	default:
		return nil, fuseerr.Newf(fuseerr.ErrMalformedDocument,
			"unsupported value type %T at %s", raw, path).WithPath(path)
	}
	return node, nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
