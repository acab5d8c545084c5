package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/takoeight0821/npjs/ast"
	"github.com/takoeight0821/npjs/token"
	"github.com/takoeight0821/npjs/utils"
)

// Parser is a recursive-descent parser over an immutable token slice.
// Tokens are consumed by moving current forward; the slice is never modified.
type Parser struct {
	tokens  []token.Token
	current int
}

func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens, 0}
}

// Parse parses tokens into a *ast.Root.
// The first grammar violation aborts the parse.
func Parse(tokens []token.Token) (*ast.Root, error) {
	return NewParser(tokens).ParseRoot()
}

// root = def* ;
func (p *Parser) ParseRoot() (*ast.Root, error) {
	body := []ast.Node{}
	for !p.IsAtEnd() {
		def, err := p.def()
		if err != nil {
			return nil, err
		}
		body = append(body, def)
	}

	return &ast.Root{Body: body}, nil
}

// ParseExpr parses a single expression that must span all of the tokens.
func (p *Parser) ParseExpr() (ast.Node, error) {
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.IsAtEnd() {
		return nil, unexpectedToken(p.peek(), "end of input")
	}

	return expr, nil
}

// def = "def" IDENT "(" params ")" expr? "end" ;
func (p *Parser) def() (*ast.Def, error) {
	if _, err := p.consume(token.DEF); err != nil {
		return nil, err
	}
	name, err := p.consume(token.IDENT)
	if err != nil {
		return nil, err
	}

	argNames := []string{}
	err = p.argList([]string{token.IDENT}, func() error {
		arg, err := p.consume(token.IDENT)
		if err != nil {
			return err
		}
		argNames = append(argNames, arg.Lexeme)

		return nil
	})
	if err != nil {
		return nil, err
	}

	body := []ast.Node{}
	if !p.match(token.END) {
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		body = append(body, expr)
	}

	if _, err := p.consume(token.END); err != nil {
		return nil, err
	}

	return &ast.Def{Name: name.Lexeme, ArgNames: argNames, Body: body}, nil
}

// expr = INTEGER | call | var ;
func (p *Parser) expr() (ast.Node, error) {
	switch {
	case p.match(token.INTEGER):
		return p.integer()
	case p.match(token.IDENT) && p.matchNth(1, token.LEFTPAREN):
		return p.call()
	case p.match(token.IDENT):
		return p.varRef()
	default:
		return nil, p.unexpected(token.INTEGER, token.IDENT)
	}
}

func (p *Parser) integer() (*ast.Int, error) {
	tok, err := p.consume(token.INTEGER)
	if err != nil {
		return nil, err
	}
	value, err := strconv.ParseInt(tok.Lexeme, 10, 32)
	if err != nil {
		return nil, utils.ErrorAt{Where: tok, Err: IntegerRangeError{Lexeme: tok.Lexeme}}
	}

	return &ast.Int{Value: int32(value)}, nil
}

// call = IDENT "(" args ")" ;
func (p *Parser) call() (*ast.Call, error) {
	name, err := p.consume(token.IDENT)
	if err != nil {
		return nil, err
	}

	args := []ast.Node{}
	err = p.argList([]string{token.INTEGER, token.IDENT}, func() error {
		arg, err := p.expr()
		if err != nil {
			return err
		}
		args = append(args, arg)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ast.Call{Name: name.Lexeme, Args: args}, nil
}

// var = IDENT ;
func (p *Parser) varRef() (*ast.VarRef, error) {
	name, err := p.consume(token.IDENT)
	if err != nil {
		return nil, err
	}

	return &ast.VarRef{Name: name.Lexeme}, nil
}

// argList = "(" (item ("," item)*)? ")" ;
// A trailing comma is rejected: after a comma, one of itemKinds is required.
func (p *Parser) argList(itemKinds []string, item func() error) error {
	if _, err := p.consume(token.LEFTPAREN); err != nil {
		return err
	}
	for !p.match(token.RIGHTPAREN) {
		if err := item(); err != nil {
			return err
		}
		if !p.match(token.RIGHTPAREN) {
			if _, err := p.consume(token.COMMA); err != nil {
				return err
			}
			if p.match(token.RIGHTPAREN) {
				return p.unexpected(itemKinds...)
			}
		}
	}
	_, err := p.consume(token.RIGHTPAREN)

	return err
}

func (p Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	p.current++

	return tok
}

func (p Parser) IsAtEnd() bool {
	return p.current >= len(p.tokens)
}

func (p Parser) match(kind string) bool {
	if p.IsAtEnd() {
		return false
	}

	return p.peek().Is(kind)
}

func (p Parser) matchNth(n int, kind string) bool {
	if p.current+n >= len(p.tokens) {
		return false
	}

	return p.tokens[p.current+n].Is(kind)
}

// consume takes the front token if it is of the given kind.
func (p *Parser) consume(kind string) (token.Token, error) {
	if !p.match(kind) {
		return token.Token{}, p.unexpected(kind)
	}

	return p.advance(), nil
}

// unexpected reports the front token, or the end of input, as not one of expected.
func (p Parser) unexpected(expected ...string) error {
	if p.IsAtEnd() {
		return unexpectedEOF(expected...)
	}

	return unexpectedToken(p.peek(), expected...)
}

type UnexpectedTokenError struct {
	Expected []string
	Actual   string
}

func (e UnexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected token: expected %s, found %s", strings.Join(e.Expected, ", "), e.Actual)
}

type UnexpectedEOFError struct {
	Expected []string
}

func (e UnexpectedEOFError) Error() string {
	return "unexpected end of input: expected " + strings.Join(e.Expected, ", ")
}

type IntegerRangeError struct {
	Lexeme string
}

func (e IntegerRangeError) Error() string {
	return fmt.Sprintf("integer literal %s is out of range", e.Lexeme)
}

func unexpectedToken(t token.Token, expected ...string) error {
	return utils.ErrorAt{Where: t, Err: UnexpectedTokenError{Expected: expected, Actual: t.Kind.String()}}
}

func unexpectedEOF(expected ...string) error {
	return utils.ErrorAt{Err: UnexpectedEOFError{Expected: expected}}
}

// IsUnexpectedEOF reports whether err was caused by running out of tokens.
func IsUnexpectedEOF(err error) bool {
	var eof UnexpectedEOFError
	return errors.As(err, &eof)
}
