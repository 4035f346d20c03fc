// Package compile runs the passes in order: parse, check, generate.
package compile

import (
	"fmt"
	"time"

	"github.com/tinyrange/subc/internal/ast"
	"github.com/tinyrange/subc/internal/codegen/llvm"
	"github.com/tinyrange/subc/internal/codegen/x86_64"
	"github.com/tinyrange/subc/internal/diag"
	"github.com/tinyrange/subc/internal/ident"
	"github.com/tinyrange/subc/internal/logger"
	"github.com/tinyrange/subc/internal/parser"
	"github.com/tinyrange/subc/internal/sema"
)

type Target string

const (
	TargetX86_64 Target = "x86_64"
	TargetLLVM   Target = "llvm"
)

// ParseTarget validates a -target value.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetX86_64, TargetLLVM:
		return Target(s), nil
	}
	return "", fmt.Errorf("unknown target %q (want x86_64 or llvm)", s)
}

type Options struct {
	Filename string
	Target   Target
	// SkipCheck disables the type resolution pass.
	SkipCheck bool
}

type Result struct {
	Program *ast.Program
	Info    *sema.Info
	Output  string
}

// Compile translates src to assembly or LLVM IR text. Diagnostics are
// returned as *diag.Error and logged with their position.
func Compile(src string, opts Options) (*Result, error) {
	if opts.Target == "" {
		opts.Target = TargetX86_64
	}
	start := time.Now()
	res := &Result{}
	phase := "parse"
	err := func() error {
		logger.Phase(phase, "file", opts.Filename, "bytes", len(src))
		idents := ident.NewTable()
		prog, err := parser.ParseProgram(idents, src)
		if err != nil {
			return err
		}
		res.Program = prog
		logger.PhaseDone(phase, "functions", len(prog.Functions), "idents", idents.Len())

		if !opts.SkipCheck {
			phase = "check"
			logger.Phase(phase)
			if res.Info, err = sema.Check(prog); err != nil {
				return err
			}
			logger.PhaseDone(phase, "exprs", len(res.Info.Types))
		}

		phase = "codegen"
		logger.Phase(phase, "target", string(opts.Target))
		switch opts.Target {
		case TargetX86_64:
			res.Output, err = x86_64.EmitProgram(prog)
		case TargetLLVM:
			res.Output, err = llvm.EmitModule(prog)
		default:
			err = fmt.Errorf("unknown target %q", opts.Target)
		}
		if err != nil {
			return err
		}
		logger.PhaseDone(phase, "bytes", len(res.Output))
		return nil
	}()
	if err != nil {
		if d, ok := diag.As(err); ok {
			logger.CompileError(phase, opts.Filename, d.Span.Line+1, d.Span.Col+1, d.Msg)
		} else {
			logger.Error("compilation failed", "phase", phase, "file", opts.Filename, "err", err)
		}
		return nil, err
	}
	logger.Info("compiled", "file", opts.Filename, "target", string(opts.Target), "duration", time.Since(start).String())
	return res, nil
}
