package x86_64

import (
	"fmt"
	"strconv"
	"strings"
)

// machine interprets the instruction subset the emitter produces. Memory is
// word addressed by byte offset; every access is eight bytes wide.
type machine struct {
	prog   []string
	labels map[string]int
	regs   map[string]int64
	mem    map[int64]int64
	cmpA   int64
	cmpB   int64
	steps  int
}

const (
	stackTop  = 1 << 20
	haltAddr  = -1
	stepLimit = 100000
)

func newMachine(asm string) (*machine, error) {
	m := &machine{labels: map[string]int{}, regs: map[string]int64{}, mem: map[int64]int64{}}
	for _, line := range strings.Split(asm, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "", strings.HasPrefix(line, "."):
		case strings.HasSuffix(line, ":"):
			name := strings.TrimSuffix(line, ":")
			if _, dup := m.labels[name]; dup {
				return nil, fmt.Errorf("duplicate label %s", name)
			}
			m.labels[name] = len(m.prog)
		default:
			m.prog = append(m.prog, line)
		}
	}
	return m, nil
}

// call runs fn until it returns and yields %rax.
func (m *machine) call(fn string) (int64, error) {
	pc, ok := m.labels[fn]
	if !ok {
		return 0, fmt.Errorf("no function %s", fn)
	}
	m.regs["rsp"] = stackTop
	m.push(haltAddr)
	for {
		if m.steps++; m.steps > stepLimit {
			return 0, fmt.Errorf("step limit exceeded")
		}
		if pc < 0 || pc >= len(m.prog) {
			return 0, fmt.Errorf("pc %d out of range", pc)
		}
		next, done, err := m.step(m.prog[pc], pc+1)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", m.prog[pc], err)
		}
		if done {
			return m.regs["rax"], nil
		}
		pc = next
	}
}

func (m *machine) push(v int64) {
	m.regs["rsp"] -= 8
	m.mem[m.regs["rsp"]] = v
}

func (m *machine) pop() int64 {
	v := m.mem[m.regs["rsp"]]
	m.regs["rsp"] += 8
	return v
}

func (m *machine) step(ins string, next int) (int, bool, error) {
	op, rest, _ := strings.Cut(ins, " ")
	var args []string
	if rest != "" {
		for _, a := range strings.Split(rest, ",") {
			args = append(args, strings.TrimSpace(a))
		}
	}
	arg := func(i int) (int64, error) { return m.read(args[i]) }

	switch op {
	case "push":
		v, err := arg(0)
		if err != nil {
			return 0, false, err
		}
		m.push(v)
	case "pop":
		return next, false, m.write(args[0], m.pop())
	case "mov", "movzx", "lea":
		var v int64
		var err error
		switch op {
		case "lea":
			v, err = m.addr(args[0])
		case "movzx":
			v, err = arg(0)
			v &= 0xff
		default:
			v, err = arg(0)
		}
		if err != nil {
			return 0, false, err
		}
		return next, false, m.write(args[1], v)
	case "add", "sub", "imul":
		a, err := arg(1)
		if err != nil {
			return 0, false, err
		}
		b, err := arg(0)
		if err != nil {
			return 0, false, err
		}
		switch op {
		case "add":
			a += b
		case "sub":
			a -= b
		default:
			a *= b
		}
		return next, false, m.write(args[1], a)
	case "neg":
		v, err := arg(0)
		if err != nil {
			return 0, false, err
		}
		return next, false, m.write(args[0], -v)
	case "cqo":
		if m.regs["rax"] < 0 {
			m.regs["rdx"] = -1
		} else {
			m.regs["rdx"] = 0
		}
	case "idiv":
		d, err := arg(0)
		if err != nil {
			return 0, false, err
		}
		if d == 0 {
			return 0, false, fmt.Errorf("division by zero")
		}
		n := m.regs["rax"]
		m.regs["rax"], m.regs["rdx"] = n/d, n%d
	case "cmp":
		b, err := arg(0)
		if err != nil {
			return 0, false, err
		}
		a, err := arg(1)
		if err != nil {
			return 0, false, err
		}
		m.cmpA, m.cmpB = a, b
	case "sete", "setne", "setl", "setle", "setg", "setge":
		var bit int64
		if m.cond(strings.TrimPrefix(op, "set")) {
			bit = 1
		}
		m.regs["rax"] = m.regs["rax"]&^0xff | bit
	case "je", "jmp":
		target, ok := m.labels[args[0]]
		if !ok {
			return 0, false, fmt.Errorf("no label %s", args[0])
		}
		if op == "jmp" || m.cond("e") {
			return target, false, nil
		}
	case "ret":
		ra := m.pop()
		if ra == haltAddr {
			return 0, true, nil
		}
		return int(ra), false, nil
	default:
		return 0, false, fmt.Errorf("unknown instruction")
	}
	return next, false, nil
}

func (m *machine) cond(cc string) bool {
	a, b := m.cmpA, m.cmpB
	switch cc {
	case "e":
		return a == b
	case "ne":
		return a != b
	case "l":
		return a < b
	case "le":
		return a <= b
	case "g":
		return a > b
	default:
		return a >= b
	}
}

func reg(s string) (string, bool) {
	switch s {
	case "%al":
		return "rax", true
	case "%rax", "%rcx", "%rdx", "%rbp", "%rsp":
		return s[1:], true
	}
	return "", false
}

// addr evaluates a memory operand `off(%reg)` or `(%reg)`.
func (m *machine) addr(s string) (int64, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return 0, fmt.Errorf("bad memory operand %s", s)
	}
	base, ok := reg(s[open+1 : len(s)-1])
	if !ok {
		return 0, fmt.Errorf("bad base register in %s", s)
	}
	var off int64
	if open > 0 {
		var err error
		if off, err = strconv.ParseInt(s[:open], 10, 64); err != nil {
			return 0, err
		}
	}
	return m.regs[base] + off, nil
}

func (m *machine) read(s string) (int64, error) {
	if strings.HasPrefix(s, "$") {
		return strconv.ParseInt(s[1:], 10, 64)
	}
	if r, ok := reg(s); ok {
		if s == "%al" {
			return m.regs[r] & 0xff, nil
		}
		return m.regs[r], nil
	}
	a, err := m.addr(s)
	if err != nil {
		return 0, err
	}
	return m.mem[a], nil
}

func (m *machine) write(s string, v int64) error {
	if r, ok := reg(s); ok && s != "%al" {
		m.regs[r] = v
		return nil
	}
	a, err := m.addr(s)
	if err != nil {
		return err
	}
	m.mem[a] = v
	return nil
}

// run executes fn from asm and returns its result.
func run(asm, fn string) (int64, error) {
	m, err := newMachine(asm)
	if err != nil {
		return 0, err
	}
	return m.call(fn)
}
