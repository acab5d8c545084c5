package ast

import "log"

// Repr is an interpretation of the AST: one method per node variant.
// Children are folded before their parent.
type Repr[T any] interface {
	Root(body []T) T
	Def(name string, argNames []string, body []T) T
	Call(name string, args []T) T
	Int(value int32) T
	VarRef(name string) T
}

// Fold interprets node bottom-up with r.
func Fold[T any](r Repr[T], node Node) T {
	switch n := node.(type) {
	case *Root:
		return r.Root(foldAll(r, n.Body))
	case *Def:
		return r.Def(n.Name, n.ArgNames, foldAll(r, n.Body))
	case *Call:
		return r.Call(n.Name, foldAll(r, n.Args))
	case *Int:
		return r.Int(n.Value)
	case *VarRef:
		return r.VarRef(n.Name)
	}

	log.Panicf("unexpected node %T", node)
	panic("unreachable")
}

func foldAll[T any](r Repr[T], nodes []Node) []T {
	results := make([]T, len(nodes))
	for i, node := range nodes {
		results[i] = Fold(r, node)
	}
	return results
}

// Builder builds nodes; Fold(Builder{}, n) is a deep copy of n.
type Builder struct{}

var _ Repr[Node] = Builder{}

func (b Builder) Root(body []Node) Node {
	return &Root{Body: body}
}

func (b Builder) Def(name string, argNames []string, body []Node) Node {
	return &Def{Name: name, ArgNames: append([]string{}, argNames...), Body: body}
}

func (b Builder) Call(name string, args []Node) Node {
	return &Call{Name: name, Args: args}
}

func (b Builder) Int(value int32) Node {
	return &Int{Value: value}
}

func (b Builder) VarRef(name string) Node {
	return &VarRef{Name: name}
}
