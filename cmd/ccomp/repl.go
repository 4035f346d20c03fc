package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/tinyrange/subc/internal/ast"
	"github.com/tinyrange/subc/internal/compile"
	"github.com/tinyrange/subc/internal/ident"
	"github.com/tinyrange/subc/internal/lexer"
)

const (
	historyFile = ".subc_history"
	promptMain  = "subc> "
	promptCont  = "....> "
	replHelp    = `Enter function definitions; input is compiled once braces balance.
  :asm   emit x86_64 assembly
  :llvm  emit LLVM IR
  :ast   toggle printing the parsed program
  :help  show this message
  :quit  leave (or Ctrl+D)`
)

type session struct {
	target   compile.Target
	printAST bool
	color    bool
}

func runREPL(cfg *config, stdout, stderr io.Writer) int {
	s := &session{target: cfg.target, printAST: cfg.printAST, color: cfg.color}
	fmt.Fprintln(stdout, "subc interactive compiler. Type :help for commands.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if quit := s.handle(src, stdout, stderr); quit {
			return 0
		}
	}
}

// handle runs one command or compiles one input. It reports whether the
// session should end.
func (s *session) handle(src string, stdout, stderr io.Writer) bool {
	if cmd := strings.TrimSpace(src); strings.HasPrefix(cmd, ":") {
		switch strings.ToLower(cmd) {
		case ":quit", ":q":
			return true
		case ":asm":
			s.target = compile.TargetX86_64
		case ":llvm":
			s.target = compile.TargetLLVM
		case ":ast":
			s.printAST = !s.printAST
			fmt.Fprintf(stdout, "ast printing %v\n", s.printAST)
		case ":help":
			fmt.Fprintln(stdout, replHelp)
		default:
			fmt.Fprintf(stdout, "unknown command %s. Type :help.\n", cmd)
		}
		return false
	}

	res, err := compile.Compile(src, compile.Options{Filename: "<stdin>", Target: s.target})
	if err != nil {
		report(stderr, src, err, s.color)
		return false
	}
	if s.printAST {
		fmt.Fprint(stdout, ast.String(res.Program))
	}
	fmt.Fprint(stdout, res.Output)
	return false
}

// readInput collects lines until the braces they contain balance. ok is
// false at end of input. Ctrl+C discards the pending lines.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if src := b.String(); braceDepth(src) <= 0 {
			return src, true
		}
	}
}

// braceDepth counts unclosed braces in src. Input that fails to lex counts
// as complete so the compiler can report it.
func braceDepth(src string) int {
	lx := lexer.New(ident.NewTable(), src)
	depth := 0
	for {
		t, err := lx.Next()
		if err != nil {
			return 0
		}
		if t.Type == lexer.EOF {
			return depth
		}
		switch t.Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
		}
	}
}
