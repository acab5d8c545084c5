package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/peterh/liner"
	"github.com/takoeight0821/npjs/driver"
	"github.com/takoeight0821/npjs/logger"
	"github.com/takoeight0821/npjs/parser"
	"github.com/takoeight0821/npjs/token"
)

func main() {
	os.Exit(run())
}

// run is the body of main; it returns the exit status so deferred closes run first.
func run() int {
	const (
		inputUsage = "input file path (default: standard input)"
	)
	var (
		inputPath   string
		grammarPath string
		encoding    string
		repl        bool
		logLevel    string
		logFile     string
	)
	flag.StringVar(&inputPath, "input", "", inputUsage)
	flag.StringVar(&inputPath, "i", "", inputUsage+" (shorthand)")
	flag.StringVar(&grammarPath, "grammar", "", "token registry YAML file")
	flag.StringVar(&encoding, "encoding", "", "input encoding, e.g. shift_jis (default: utf-8)")
	flag.BoolVar(&repl, "repl", false, "start an interactive prompt")
	flag.StringVar(&logLevel, "log", "warn", "log level: debug, info, warn or error")
	flag.StringVar(&logFile, "log-file", "", "also write JSON logs to this file")

	flag.Parse()

	var sink io.Writer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		sink = f
	}

	log, err := logger.New(logLevel, os.Stderr, sink)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	slog.SetDefault(log)

	kinds, err := loadGrammar(grammarPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	t := driver.NewTranspiler(driver.Options{Kinds: kinds, Encoding: encoding, Logger: log})

	if repl {
		err = RunPrompt(t)
	} else {
		err = RunFile(t, inputPath, os.Stdout)
	}
	if err != nil && !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// loadGrammar reads the token registry from path, or from npjs/grammar.yaml in
// the XDG config directories when path is empty. It returns nil when neither exists.
func loadGrammar(path string) ([]*token.Kind, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(filepath.Join("npjs", "grammar.yaml"))
		if err != nil {
			return nil, nil
		}
		path = found
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("grammar file %s does not exist", path)
		}
		return nil, err
	}
	defer f.Close()

	slog.Debug("loading grammar", "path", path)

	return token.LoadKinds(f)
}

// RunFile transpiles the file at path, or standard input when path is empty, to w.
func RunFile(t *driver.Transpiler, path string, w io.Writer) error {
	in := io.Reader(os.Stdin)
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	return t.Run(in, w)
}

var history = filepath.Join(xdg.DataHome, "npjs", ".npjs_history")

// session collects prompt lines until they form a complete program.
type session struct {
	t       *driver.Transpiler
	pending []string
}

// feed adds one line of input. While the lines so far stop before a
// definition is complete it returns done == false and keeps them.
// Otherwise it transpiles them, clears the buffer and returns the joined source.
func (s *session) feed(line string) (source, output string, done bool, err error) {
	s.pending = append(s.pending, line)
	source = strings.Join(s.pending, "\n")

	output, err = s.t.Transpile(source)
	if err != nil && parser.IsUnexpectedEOF(err) {
		return source, "", false, nil
	}
	s.pending = nil

	return source, output, true, err
}

func (s *session) continuing() bool {
	return len(s.pending) > 0
}

// RunPrompt reads definitions interactively. Input that ends before a
// definition is complete is continued on the next line.
func RunPrompt(t *driver.Transpiler) error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer func() {
		if err := os.MkdirAll(filepath.Dir(history), os.ModePerm); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if f, err := os.Create(history); err == nil {
			defer f.Close()
			if _, err := line.WriteHistory(f); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		line.Close()
	}()

	if f, err := os.Open(history); err == nil {
		defer f.Close()
		if _, err := line.ReadHistory(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	s := &session{t: t}
	for {
		prompt := "> "
		if s.continuing() {
			prompt = "| "
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			return err
		}

		source, output, done, err := s.feed(input)
		if !done {
			continue
		}
		line.AppendHistory(source)

		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if output != "" {
			fmt.Println(output)
		}
	}
}
