package lexer

import (
	"unicode/utf8"

	"github.com/takoeight0821/npjs/token"
)

// Tokenize splits source into tokens using kinds in priority order.
// Characters no kind matches, whitespace included, are dropped without a token.
// Tokenize never fails.
func Tokenize(source string, kinds []*token.Kind) []token.Token {
	lexer := lexer{
		source:  source,
		kinds:   kinds,
		tokens:  []token.Token{},
		current: 0,
		line:    1,
		column:  1,
	}

	for !lexer.isAtEnd() {
		lexer.scanToken()
	}

	return lexer.tokens
}

// Lex tokenizes source with the default registry.
func Lex(source string) []token.Token {
	return Tokenize(source, token.Kinds())
}

type lexer struct {
	source string
	kinds  []*token.Kind
	tokens []token.Token

	current int // current position in source
	line    int // current line number
	column  int // current column, in runes
}

func (l lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *lexer) scanToken() {
	rest := l.source[l.current:]
	for _, kind := range l.kinds {
		if n, ok := kind.Match(rest); ok {
			l.tokens = append(l.tokens, token.Token{
				Kind:   kind,
				Lexeme: rest[:n],
				Offset: l.current,
				Line:   l.line,
				Column: l.column,
			})
			l.skip(n)

			return
		}
	}

	_, width := utf8.DecodeRuneInString(rest)
	l.skip(width)
}

// skip moves past n bytes, keeping line and column in step.
func (l *lexer) skip(n int) {
	end := l.current + n
	for l.current < end {
		r, width := utf8.DecodeRuneInString(l.source[l.current:])
		l.current += width
		if r == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}
}
