package generator

import (
	"strconv"
	"strings"

	"github.com/takoeight0821/npjs/ast"
)

// Generate renders node as JavaScript. It cannot fail on a tree built by the parser.
func Generate(node ast.Node) string {
	return ast.Fold[ast.Writer](JS{}, node).Text()
}

// JS renders each node variant as JavaScript source text.
// Every subtree writes into the same builder.
type JS struct{}

var _ ast.Repr[ast.Writer] = JS{}

// Root puts one definition per line.
func (JS) Root(body []ast.Writer) ast.Writer {
	return func(b *strings.Builder) {
		for i, def := range body {
			if i > 0 {
				b.WriteString("\n")
			}
			def(b)
		}
	}
}

// Def returns the last statement of the body; earlier statements are
// separated by ";".
func (JS) Def(name string, argNames []string, body []ast.Writer) ast.Writer {
	return func(b *strings.Builder) {
		b.WriteString("function " + name + "(" + strings.Join(argNames, ", ") + ") ")
		if len(body) == 0 {
			b.WriteString("{ }")
			return
		}

		b.WriteString("{ ")
		for i, stmt := range body {
			if i > 0 {
				b.WriteString(";")
			}
			if i == len(body)-1 {
				b.WriteString("return ")
			}
			stmt(b)
		}
		b.WriteString(" }")
	}
}

func (JS) Call(name string, args []ast.Writer) ast.Writer {
	return func(b *strings.Builder) {
		b.WriteString(name)
		b.WriteString("(")
		for i, arg := range args {
			if i > 0 {
				b.WriteString(", ")
			}
			arg(b)
		}
		b.WriteString(")")
	}
}

func (JS) Int(value int32) ast.Writer {
	return ast.Atom(strconv.FormatInt(int64(value), 10))
}

func (JS) VarRef(name string) ast.Writer {
	return ast.Atom(name)
}
