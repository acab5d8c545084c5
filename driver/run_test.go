package driver_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/sebdah/goldie/v2"
	"github.com/takoeight0821/npjs/driver"
	"github.com/takoeight0821/npjs/logger"
	"github.com/takoeight0821/npjs/parser"
	"github.com/takoeight0821/npjs/token"
	"github.com/takoeight0821/npjs/utils"
)

func TestTranspileFromTestData(t *testing.T) {
	t.Parallel()
	s, err := os.ReadFile("../testdata/testcase.yaml")
	if err != nil {
		panic(err)
	}
	testcases := utils.ReadTestData(s)
	for _, testcase := range testcases {
		output, err := driver.Transpile(testcase.Input)

		if expected, ok := testcase.Expected["error"]; ok {
			if err == nil {
				t.Errorf("%s: Transpile returned %q, want error containing %q", testcase.Label, output, expected)
			} else if !strings.Contains(err.Error(), expected) {
				t.Errorf("%s: Transpile returned error %q, want it to contain %q", testcase.Label, err, expected)
			}
			if output != "" {
				t.Errorf("%s: Transpile returned output %q alongside an error", testcase.Label, output)
			}
			continue
		}

		if err != nil {
			t.Errorf("%s: Transpile returned error: %v", testcase.Label, err)
			continue
		}
		if diff := cmp.Diff(testcase.Expected["generator"], output); diff != "" {
			t.Errorf("%s: Transpile mismatch (-want +got):\n%s", testcase.Label, diff)
		}
	}
}

func TestGolden(t *testing.T) {
	t.Parallel()

	testfiles, err := utils.FindSourceFiles("../testdata")
	if err != nil {
		t.Fatalf("failed to find test files: %v", err)
	}

	transpiler := driver.NewTranspiler(driver.Options{})
	g := goldie.New(t, goldie.WithFixtureDir("../testdata/golden"))
	for _, testfile := range testfiles {
		f, err := os.Open(testfile)
		if err != nil {
			t.Fatalf("failed to open %s: %v", testfile, err)
		}

		var out bytes.Buffer
		err = transpiler.Run(f, &out)
		f.Close()
		if err != nil {
			t.Errorf("%s returned error: %v", testfile, err)
			continue
		}

		g.Assert(t, filepath.Base(testfile), out.Bytes())
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		label    string
		opts     driver.Options
		input    []byte
		expected string
	}{
		{"empty input writes nothing", driver.Options{}, nil, ""},
		{"output ends with a newline", driver.Options{}, []byte("def f() 1 end"), "function f() { return 1 }\n"},
		{
			"utf-16 input is decoded",
			driver.Options{Encoding: "utf-16le"},
			utf16le("def f(x) g(x, 1) end"),
			"function f(x) { return g(x, 1) }\n",
		},
		{
			// 0x82 0xa0 is HIRAGANA LETTER A in Shift_JIS; it is skipped like any other unknown character.
			"shift_jis input is decoded",
			driver.Options{Encoding: "shift_jis"},
			[]byte("def f() \x82\xa0 1 end"),
			"function f() { return 1 }\n",
		},
	}

	for _, testcase := range testcases {
		var out bytes.Buffer
		err := driver.NewTranspiler(testcase.opts).Run(bytes.NewReader(testcase.input), &out)
		if err != nil {
			t.Errorf("%s: Run returned error: %v", testcase.label, err)
			continue
		}
		if diff := cmp.Diff(testcase.expected, out.String()); diff != "" {
			t.Errorf("%s: Run mismatch (-want +got):\n%s", testcase.label, diff)
		}
	}
}

func utf16le(s string) []byte {
	var b []byte
	for _, r := range s {
		b = append(b, byte(r), byte(r>>8))
	}
	return b
}

func TestRunWritesNothingOnError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := driver.NewTranspiler(driver.Options{}).Run(strings.NewReader("def f() g(1,) end"), &out)

	var tokErr parser.UnexpectedTokenError
	if !errors.As(err, &tokErr) {
		t.Errorf("Run returned %v, want UnexpectedTokenError", err)
	}
	if out.Len() != 0 {
		t.Errorf("Run wrote %q on error", out.String())
	}
}

func TestUnknownEncoding(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := driver.NewTranspiler(driver.Options{Encoding: "no-such-encoding"}).Run(strings.NewReader("def f() end"), &out)
	if err == nil {
		t.Errorf("Run succeeded with an unknown encoding")
	}
}

func TestCustomKinds(t *testing.T) {
	t.Parallel()

	// Same grammar with "fn" and "done" as keywords.
	kinds := []*token.Kind{
		token.NewKind(token.DEF, `^\bfn\b`),
		token.NewKind(token.END, `^\bdone\b`),
		token.NewKind(token.IDENT, `^\b[a-zA-Z_]+\b`),
		token.NewKind(token.INTEGER, `^\b[0-9]+\b`),
		token.NewKind(token.LEFTPAREN, `^\(`),
		token.NewKind(token.RIGHTPAREN, `^\)`),
		token.NewKind(token.COMMA, `^,`),
	}

	output, err := driver.NewTranspiler(driver.Options{Kinds: kinds}).Transpile("fn add_one(x) add(x, 1) done")
	if err != nil {
		t.Fatalf("Transpile returned error: %v", err)
	}
	if diff := cmp.Diff("function add_one(x) { return add(x, 1) }", output); diff != "" {
		t.Errorf("Transpile mismatch (-want +got):\n%s", diff)
	}
}

func TestDebugLogging(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log, err := logger.New("debug", &logs, nil)
	if err != nil {
		t.Fatalf("logger.New returned error: %v", err)
	}

	if _, err := driver.NewTranspiler(driver.Options{Logger: log}).Transpile("def f() 1 end"); err != nil {
		t.Fatalf("Transpile returned error: %v", err)
	}

	for _, msg := range []string{"msg=tokenized", "tokens=6", "msg=parsed", "msg=generated"} {
		if !strings.Contains(logs.String(), msg) {
			t.Errorf("debug log does not contain %q:\n%s", msg, logs.String())
		}
	}
}

func TestDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	parts := []string{"def", "end", "f", "x", "1", "(", ")", ",", " "}
	sources := gen.OneGenOf(
		gen.AnyString(),
		gen.SliceOf(gen.IntRange(0, len(parts)-1)).Map(func(indexes []int) string {
			var b strings.Builder
			for _, i := range indexes {
				b.WriteString(parts[i])
			}
			return b.String()
		}),
	)

	properties.Property("repeated runs give identical results", prop.ForAll(
		func(source string) bool {
			first, firstErr := driver.Transpile(source)
			second, secondErr := driver.Transpile(source)
			if (firstErr == nil) != (secondErr == nil) {
				return false
			}
			if firstErr != nil {
				return first == "" && second == "" && firstErr.Error() == secondErr.Error()
			}
			return first == second
		},
		sources,
	))

	properties.TestingRun(t)
}

func TestDeepNesting(t *testing.T) {
	t.Parallel()

	// Rendering must stay linear in depth; at this size a quadratic
	// renderer takes minutes.
	const depth = 100000
	body := strings.Repeat("g(", depth) + "1" + strings.Repeat(")", depth)

	output, err := driver.Transpile("def f() " + body + " end")
	if err != nil {
		t.Fatalf("Transpile returned error: %v", err)
	}
	if output != "function f() { return "+body+" }" {
		t.Errorf("Transpile returned %d bytes, want the nested call verbatim", len(output))
	}
}
