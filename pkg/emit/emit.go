// Package emit renders a binding tree as a generated Go source file of
// typed constants and variables, one exported identifier per bound value
// with the namespace nesting folded into the identifier prefix.
package emit

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"mvdan.cc/gofumpt/format"

	"github.com/orgrinrt/tomlfuse/pkg/binding"
	"github.com/orgrinrt/tomlfuse/pkg/document"
	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
	"github.com/orgrinrt/tomlfuse/pkg/logging"
	"github.com/rs/zerolog"
)

// Options controls the generated file
type Options struct {
	// PackageName is the package clause of the output; defaults to "config"
	PackageName string
	// Source names the document the bindings came from, recorded in the
	// file header
	Source string
}

// DefaultPackage is used when Options leaves the package name empty
const DefaultPackage = "config"

type generator struct {
	buf       bytes.Buffer
	needsTime bool
	logger    zerolog.Logger
}

// Generate renders the tree as formatted Go source. Scalars become typed
// consts, homogeneous arrays become typed slice vars and datetimes become
// time.Time vars; arrays of tables have no constant form and are skipped.
func Generate(tree *binding.Tree, opts Options) ([]byte, error) {
	g := &generator{logger: logging.GetLogger("emit")}

	pkg := opts.PackageName
	if pkg == "" {
		pkg = DefaultPackage
	}

	for _, ns := range tree.Namespaces {
		g.emitEntry(ns, nil)
	}

	var out bytes.Buffer
	out.WriteString("// Code generated by tomlfuse. DO NOT EDIT.\n")
	if opts.Source != "" {
		fmt.Fprintf(&out, "// Source: %s\n", opts.Source)
	}
	fmt.Fprintf(&out, "\npackage %s\n\n", pkg)
	if g.needsTime {
		out.WriteString("import \"time\"\n\n")
	}
	out.Write(g.buf.Bytes())

	formatted, err := format.Source(out.Bytes(), format.Options{})
	if err != nil {
		return nil, fuseerr.Wrap(err, fuseerr.ErrEmitFailed, "generated source does not format")
	}

	g.logger.Debug().
		Int("namespaces", len(tree.Namespaces)).
		Int("bytes", len(formatted)).
		Msg("Source generated")
	return formatted, nil
}

func (g *generator) emitEntry(e *binding.Entry, prefix []string) {
	parts := make([]string, len(prefix)+1)
	copy(parts, prefix)
	parts[len(prefix)] = GoName(e.Name)
	ident := strings.Join(parts, "")

	switch e.Kind() {
	case document.KindTable:
		if e.Doc != "" {
			g.writeDoc(e.Doc)
			g.buf.WriteString("\n")
		}
		for _, c := range e.Children {
			g.emitEntry(c, parts)
		}
	case document.KindArray:
		g.emitArray(e, ident)
	case document.KindDateTime:
		g.writeDoc(e.Doc)
		fmt.Fprintf(&g.buf, "var %s = %s\n\n", ident, g.timeLiteral(e.Node.Value.(time.Time)))
	default:
		typ, lit := scalarLiteral(e.Node)
		g.writeDoc(e.Doc)
		fmt.Fprintf(&g.buf, "const %s %s = %s\n\n", ident, typ, lit)
	}
}

func (g *generator) emitArray(e *binding.Entry, ident string) {
	typ, ok := g.arrayType(e.Node)
	if !ok {
		g.logger.Debug().
			Str("identifier", ident).
			Msg("Array of tables has no constant form, skipped")
		return
	}
	g.writeDoc(e.Doc)
	fmt.Fprintf(&g.buf, "var %s = %s\n\n", ident, g.arrayLiteral(e.Node, typ))
}

// arrayType derives the Go slice type from the (validated homogeneous)
// element kind. Empty arrays default to []string. Arrays of tables have
// no emittable type.
func (g *generator) arrayType(n *document.Node) (string, bool) {
	if len(n.Children) == 0 {
		return "[]string", true
	}
	elem := n.Children[0]
	switch elem.Kind {
	case document.KindTable:
		return "", false
	case document.KindArray:
		inner, ok := g.arrayType(elem)
		if !ok {
			return "", false
		}
		return "[]" + inner, true
	case document.KindDateTime:
		g.needsTime = true
		return "[]time.Time", true
	case document.KindString:
		return "[]string", true
	case document.KindInteger:
		return "[]int64", true
	case document.KindFloat:
		return "[]float64", true
	case document.KindBool:
		return "[]bool", true
	default:
		return "", false
	}
}

func (g *generator) arrayLiteral(n *document.Node, typ string) string {
	elems := make([]string, 0, len(n.Children))
	for _, elem := range n.Children {
		switch elem.Kind {
		case document.KindArray:
			// inner literals elide the element type, matching gofmt -s
			elems = append(elems, g.arrayLiteral(elem, ""))
		case document.KindDateTime:
			elems = append(elems, g.timeLiteral(elem.Value.(time.Time)))
		default:
			_, lit := scalarLiteral(elem)
			elems = append(elems, lit)
		}
	}
	return typ + "{" + strings.Join(elems, ", ") + "}"
}

func scalarLiteral(n *document.Node) (typ, lit string) {
	switch n.Kind {
	case document.KindString:
		return "string", strconv.Quote(n.Value.(string))
	case document.KindInteger:
		return "int64", strconv.FormatInt(n.Value.(int64), 10)
	case document.KindFloat:
		return "float64", strconv.FormatFloat(n.Value.(float64), 'g', -1, 64)
	case document.KindBool:
		return "bool", strconv.FormatBool(n.Value.(bool))
	default:
		return "string", strconv.Quote(fmt.Sprint(n.Value))
	}
}

func (g *generator) timeLiteral(t time.Time) string {
	g.needsTime = true
	zone := "time.UTC"
	if name, offset := t.Zone(); offset != 0 {
		zone = fmt.Sprintf("time.FixedZone(%q, %d)", name, offset)
	}
	return fmt.Sprintf("time.Date(%d, time.%s, %d, %d, %d, %d, %d, %s)",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), zone)
}

func (g *generator) writeDoc(doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		if line == "" {
			g.buf.WriteString("//\n")
			continue
		}
		fmt.Fprintf(&g.buf, "// %s\n", line)
	}
}

// GoName converts a sanitized identifier to its exported CamelCase form,
// capitalizing each underscore-separated part.
func GoName(ident string) string {
	var b strings.Builder
	for _, part := range strings.Split(ident, "_") {
		if part == "" {
			continue
		}
		r := []rune(part)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(string(r[1:]))
	}
	return b.String()
}
