package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// AST

// Node is one of *Root, *Def, *Call, *Int or *VarRef.
// The set is closed; Fold is the exhaustive dispatch over it.
type Node interface {
	fmt.Stringer
	node()
}

// Root is the whole program: a sequence of definitions.
type Root struct {
	Body []Node
}

func (r Root) String() string {
	return sexpr(&r)
}

func (*Root) node() {}

var _ Node = &Root{}

// Def is a function definition.
// ArgNames keep declaration order; duplicates are not rejected.
// Body holds zero or one expression.
type Def struct {
	Name     string
	ArgNames []string
	Body     []Node
}

func (d Def) String() string {
	return sexpr(&d)
}

func (*Def) node() {}

var _ Node = &Def{}

type Call struct {
	Name string
	Args []Node
}

func (c Call) String() string {
	return sexpr(&c)
}

func (*Call) node() {}

var _ Node = &Call{}

type Int struct {
	Value int32
}

func (i Int) String() string {
	return sexpr(&i)
}

func (*Int) node() {}

var _ Node = &Int{}

type VarRef struct {
	Name string
}

func (v VarRef) String() string {
	return sexpr(&v)
}

func (*VarRef) node() {}

var _ Node = &VarRef{}

// Writer appends the text of a folded subtree to a shared builder,
// so rendering a tree costs time linear in its size.
type Writer func(*strings.Builder)

// Text runs w against a fresh builder.
func (w Writer) Text() string {
	var b strings.Builder
	w(&b)
	return b.String()
}

// Atom writes s verbatim.
func Atom(s string) Writer {
	return func(b *strings.Builder) {
		b.WriteString(s)
	}
}

func sexpr(node Node) string {
	return Fold[Writer](sexprs{}, node).Text()
}

// sexprs renders nodes as S-expressions, e.g. (def f (x) (call g (var x))).
type sexprs struct{}

func (sexprs) Root(body []Writer) Writer {
	return list("root", body...)
}

func (sexprs) Def(name string, argNames []string, body []Writer) Writer {
	head := []Writer{Atom(name), Atom("(" + strings.Join(argNames, " ") + ")")}
	return list("def", append(head, body...)...)
}

func (sexprs) Call(name string, args []Writer) Writer {
	return list("call", append([]Writer{Atom(name)}, args...)...)
}

func (sexprs) Int(value int32) Writer {
	return list("int", Atom(strconv.FormatInt(int64(value), 10)))
}

func (sexprs) VarRef(name string) Writer {
	return list("var", Atom(name))
}

func list(head string, elems ...Writer) Writer {
	return func(b *strings.Builder) {
		b.WriteString("(")
		b.WriteString(head)
		for _, elem := range elems {
			b.WriteString(" ")
			elem(b)
		}
		b.WriteString(")")
	}
}
