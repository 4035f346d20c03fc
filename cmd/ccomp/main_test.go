package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinyrange/subc/internal/compile"
	"github.com/tinyrange/subc/internal/logger"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "prog.c")
	if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("SUBC_LOG", "")
	defer logger.Reset()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCompileToStdout(t *testing.T) {
	p := writeSource(t, "int main() { return 4 + 5; }")
	code, out, errOut := runCmd(t, p)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, ".globl main") || !strings.Contains(out, "add %rcx, %rax") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestOutputFileAndTarget(t *testing.T) {
	p := writeSource(t, "int main() { return 1; }")
	outPath := filepath.Join(t.TempDir(), "out.ll")
	code, _, errOut := runCmd(t, "-target", "llvm", "-o", outPath, p)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "define i64 @main()") {
		t.Errorf("unexpected output:\n%s", data)
	}
}

func TestPrintAST(t *testing.T) {
	p := writeSource(t, "int main() { return 4 + 5; }")
	_, out, _ := runCmd(t, "-ast", p)
	if out != "Function(name=main, Block(Return(Expr(4 + 5))))\n" {
		t.Errorf("got %q", out)
	}
}

func TestTokens(t *testing.T) {
	p := writeSource(t, "int x;")
	code, out, _ := runCmd(t, "-tokens", p)
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], `"x"`) {
		t.Errorf("identifier line = %q", lines[1])
	}
}

func TestParseErrorReport(t *testing.T) {
	p := writeSource(t, "int main() { return }")
	code, _, errOut := runCmd(t, p)
	if code != 1 {
		t.Errorf("exit %d, want 1", code)
	}
	for _, want := range []string{"int main() { return }", "Line 1, Column 21", "Error: expected primary expression"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("missing %q in\n%s", want, errOut)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	if code, _, _ := runCmd(t); code != 2 {
		t.Errorf("no file: exit %d", code)
	}
	if code, _, _ := runCmd(t, "-target", "arm", "x.c"); code != 2 {
		t.Errorf("bad target: exit %d", code)
	}
	if code, _, _ := runCmd(t, filepath.Join(t.TempDir(), "missing.c")); code != 1 {
		t.Errorf("missing file: exit %d", code)
	}
}

func TestBraceDepth(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"int main() {", 1},
		{"int main() { if (1) {", 2},
		{"int main() { return 0; }", 0},
		{"int main() { /* { */", 1},
		{":quit", 0},
		{"int main() { @", 0},
	}
	for _, tc := range tests {
		if got := braceDepth(tc.src); got != tc.want {
			t.Errorf("braceDepth(%q) = %d, want %d", tc.src, got, tc.want)
		}
	}
}

func TestSessionCommands(t *testing.T) {
	s := &session{target: compile.TargetX86_64}
	var out, errOut bytes.Buffer

	if s.handle(":llvm", &out, &errOut) || s.target != compile.TargetLLVM {
		t.Errorf(":llvm did not switch target")
	}
	s.handle("int main() { return 2; }", &out, &errOut)
	if !strings.Contains(out.String(), "define i64 @main()") {
		t.Errorf("llvm output missing:\n%s", out.String())
	}

	out.Reset()
	s.handle(":asm", &out, &errOut)
	s.handle(":ast", &out, &errOut)
	s.handle("int main() { return 3; }", &out, &errOut)
	if !strings.Contains(out.String(), "Function(name=main") || !strings.Contains(out.String(), ".globl main") {
		t.Errorf("asm/ast output missing:\n%s", out.String())
	}

	s.handle("int main() { return }", &out, &errOut)
	if !strings.Contains(errOut.String(), "expected primary expression") {
		t.Errorf("diagnostic missing:\n%s", errOut.String())
	}
	if !s.handle(":quit", &out, &errOut) {
		t.Error(":quit did not end the session")
	}
}
