package token

import (
	"fmt"
	"regexp"
)

// Names of the token kinds the parser depends on.
const (
	DEF        = "def"
	END        = "end"
	IDENT      = "identifier"
	INTEGER    = "integer"
	LEFTPAREN  = "oparam"
	RIGHTPAREN = "cparam"
	COMMA      = "comma"
)

// Kind is a named lexical category.
// The order of a []*Kind is its match priority: the first kind that matches wins.
type Kind struct {
	Name    string
	Pattern *regexp.Regexp
}

// NewKind compiles pattern and panics if it is invalid.
func NewKind(name, pattern string) *Kind {
	return &Kind{Name: name, Pattern: regexp.MustCompile(pattern)}
}

func (k *Kind) String() string {
	if k == nil {
		return "<nil>"
	}
	return k.Name
}

// Match reports the length of the match of k at the start of s.
// Matches that do not begin at s[0] or are empty do not count.
func (k *Kind) Match(s string) (int, bool) {
	loc := k.Pattern.FindStringIndex(s)
	if loc == nil || loc[0] != 0 || loc[1] == 0 {
		return 0, false
	}
	return loc[1], true
}

// Kinds returns the default registry.
// Reserved words come before IDENT, otherwise `def` would lex as an identifier.
func Kinds() []*Kind {
	return []*Kind{
		NewKind(DEF, `^(\bdef\b)`),
		NewKind(END, `^(\bend\b)`),
		NewKind(IDENT, `^(\b[a-zA-Z]+\b)`),
		NewKind(INTEGER, `^(\b[0-9]+\b)`),
		NewKind(LEFTPAREN, `^(\()`),
		NewKind(RIGHTPAREN, `^(\))`),
		NewKind(COMMA, `^(,)`),
	}
}

type Token struct {
	Kind   *Kind
	Lexeme string
	Offset int // byte offset in the source
	Line   int
	Column int
}

// Is reports whether t is of the kind named name.
func (t Token) Is(name string) bool {
	return t.Kind != nil && t.Kind.Name == name
}

func (t Token) String() string {
	return fmt.Sprintf("{%v, %q, %d:%d}", t.Kind, t.Lexeme, t.Line, t.Column)
}
