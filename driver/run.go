package driver

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/takoeight0821/npjs/generator"
	"github.com/takoeight0821/npjs/lexer"
	"github.com/takoeight0821/npjs/logger"
	"github.com/takoeight0821/npjs/parser"
	"github.com/takoeight0821/npjs/token"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Options configures a Transpiler. Zero values select the defaults.
type Options struct {
	Kinds    []*token.Kind // token registry; token.Kinds() if nil
	Encoding string        // input encoding name, e.g. "shift_jis"; UTF-8 if empty
	Logger   *slog.Logger
}

// Transpiler runs tokenize, parse and generate over one source text per call.
// It holds no state between calls.
type Transpiler struct {
	kinds    []*token.Kind
	encoding string
	log      *slog.Logger
}

func NewTranspiler(opts Options) *Transpiler {
	t := &Transpiler{kinds: opts.Kinds, encoding: opts.Encoding, log: opts.Logger}
	if t.kinds == nil {
		t.kinds = token.Kinds()
	}
	if t.log == nil {
		t.log = logger.Discard()
	}

	return t
}

// Transpile translates source with the default options.
func Transpile(source string) (string, error) {
	return NewTranspiler(Options{}).Transpile(source)
}

// Transpile translates source. On a grammar violation it returns no output.
func (t *Transpiler) Transpile(source string) (string, error) {
	tokens := lexer.Tokenize(source, t.kinds)
	t.log.Debug("tokenized", "tokens", len(tokens))

	root, err := parser.Parse(tokens)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}
	t.log.Debug("parsed", "ast", lazy{root})

	output := generator.Generate(root)
	t.log.Debug("generated", "bytes", len(output))

	return output, nil
}

// Run reads all of r as one source text and writes the output to w.
// Non-empty output is followed by a newline. Nothing is written on error.
func (t *Transpiler) Run(r io.Reader, w io.Writer) error {
	r, err := t.decode(r)
	if err != nil {
		return err
	}

	source, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	output, err := t.Transpile(string(source))
	if err != nil {
		return err
	}
	if output == "" {
		return nil
	}

	if _, err := io.WriteString(w, output+"\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

// lazy renders its value only when a handler records the attribute.
type lazy struct {
	value fmt.Stringer
}

func (l lazy) LogValue() slog.Value {
	return slog.StringValue(l.value.String())
}

func (t *Transpiler) decode(r io.Reader) (io.Reader, error) {
	if t.encoding == "" {
		return r, nil
	}

	enc, err := htmlindex.Get(t.encoding)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", t.encoding, err)
	}

	return transform.NewReader(r, enc.NewDecoder()), nil
}
