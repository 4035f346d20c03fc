package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tinyrange/subc/internal/ast"
	"github.com/tinyrange/subc/internal/compile"
	"github.com/tinyrange/subc/internal/diag"
	"github.com/tinyrange/subc/internal/ident"
	"github.com/tinyrange/subc/internal/lexer"
	"github.com/tinyrange/subc/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type config struct {
	out       string
	target    compile.Target
	printAST  bool
	tokens    bool
	color     bool
	repl      bool
	logLevel  logger.Level
	logFormat string
}

func parseFlags(args []string, stderr io.Writer) (*config, []string, error) {
	fs := flag.NewFlagSet("ccomp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: ccomp [flags] <file.c>")
		fs.PrintDefaults()
	}
	out := fs.String("o", "", "write output to `file` instead of stdout")
	target := fs.String("target", string(compile.TargetX86_64), "output format: x86_64 or llvm")
	printAST := fs.Bool("ast", false, "print the parsed program instead of compiling it")
	tokens := fs.Bool("tokens", false, "print the token stream and exit")
	verbose := fs.Bool("v", false, "log every compilation phase")
	logFormat := fs.String("log-format", "text", "log format: text or json")
	color := fs.Bool("color", false, "highlight diagnostics with ANSI colors")
	repl := fs.Bool("i", false, "start an interactive session")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg := &config{
		out:       *out,
		printAST:  *printAST,
		tokens:    *tokens,
		color:     *color,
		repl:      *repl,
		logLevel:  logger.LevelWarn,
		logFormat: *logFormat,
	}
	var err error
	if cfg.target, err = compile.ParseTarget(*target); err != nil {
		return nil, nil, err
	}
	if *verbose {
		cfg.logLevel = logger.LevelDebug
	}
	if env := os.Getenv("SUBC_LOG"); env != "" {
		if cfg.logLevel, err = logger.ParseLevel(env); err != nil {
			return nil, nil, fmt.Errorf("SUBC_LOG: %w", err)
		}
	}
	return cfg, fs.Args(), nil
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, rest, err := parseFlags(args, stderr)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if err := logger.Init(logger.Config{Level: cfg.logLevel, Format: cfg.logFormat, Output: stderr}); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if cfg.repl {
		return runREPL(cfg, stdout, stderr)
	}
	if len(rest) != 1 {
		fmt.Fprintln(stderr, "usage: ccomp [flags] <file.c>")
		return 2
	}
	srcPath := rest[0]
	data, err := os.ReadFile(srcPath)
	if err != nil {
		fmt.Fprintf(stderr, "read error: %v\n", err)
		return 1
	}
	src := string(data)

	if cfg.tokens {
		if err := dumpTokens(stdout, src); err != nil {
			report(stderr, src, err, cfg.color)
			return 1
		}
		return 0
	}

	res, err := compile.Compile(src, compile.Options{Filename: srcPath, Target: cfg.target})
	if err != nil {
		report(stderr, src, err, cfg.color)
		return 1
	}

	output := res.Output
	if cfg.printAST {
		output = ast.String(res.Program)
	}
	if cfg.out == "" {
		fmt.Fprint(stdout, output)
		return 0
	}
	if err := os.WriteFile(cfg.out, []byte(output), 0644); err != nil {
		fmt.Fprintf(stderr, "write error: %v\n", err)
		return 1
	}
	return 0
}

// report prints a diagnostic with its source line, or a plain error.
func report(w io.Writer, src string, err error, color bool) {
	if d, ok := diag.As(err); ok {
		diag.Print(w, src, d, color)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func dumpTokens(w io.Writer, src string) error {
	lx := lexer.New(ident.NewTable(), src)
	for {
		t, err := lx.Next()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-8s %-8q %s\n", t.Type, t.Lex, t.Span)
		if t.Type == lexer.EOF {
			return nil
		}
	}
}
