package main

import (
	"context"
	"errors"
	"fmt"
)

// ScriptError reports where a script failed: which address space, the
// linear address of the offending byte, and the opcode found there. The
// innermost failure travels unchanged through every enclosing block.
type ScriptError struct {
	Space string
	Addr  int
	Op    byte
	Err   error
}

func (e ScriptError) Error() string {
	return fmt.Sprintf("script error at %s:%d: %v", e.Space, e.Addr, e.Err)
}
func (e ScriptError) Unwrap() error { return e.Err }

var (
	errBadOpcode    = errors.New("bad opcode")
	errUnterminated = errors.New("unterminated form")
	errBadName      = errors.New("missing name")
	errNoTrap       = errors.New("no trap handler")
)

func (sh *Shell) scriptError(sp space, local int, op byte, err error) error {
	if op != 0 && err == errBadOpcode {
		err = fmt.Errorf("%w %q", errBadOpcode, string(rune(op)))
	}
	return ScriptError{Space: sp.tag(), Addr: sp.linear(local), Op: op, Err: err}
}

// tick advances the cycle counter and honors cancellation between
// opcodes. This is the only preemption the interpreter knows.
func (sh *Shell) tick(ctx context.Context) error {
	sh.cycle++
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// run executes the script at linear address addr until its null terminator
// or the close brace of the block being run. The address space is chosen
// once from addr and used for every fetch of this invocation; the frame
// pointer is saved around the call so recursion scopes frames naturally.
func (sh *Shell) run(ctx context.Context, addr int) (rerr error) {
	defer func(fp int) { sh.fp = fp }(sh.fp)

	sp := sh.spaceFor(addr)
	start := sp.local(addr)
	s := start
	base := 10
	neg := false
	var c byte

	defer func() {
		if rerr != nil && sh.tracing {
			sh.printCaret(sp, start, s)
		}
	}()

	for {
		c = sp.read(s)
		s++
		if c == 0 {
			return nil
		}

		// a '-' is only a sign when a digit follows
		if c == '-' {
			if d := sp.read(s); d >= '0' && d <= '9' {
				neg = true
				s++
				c = d
			}
		} else if c == '0' {
			d := sp.read(s)
			s++
			if d == 'x' {
				base = 16
			} else if d == 'b' {
				base = 2
			} else {
				s -= 2
			}
			c = sp.read(s)
			s++
			if c == 0 {
				return nil
			}
		}

		if isDigit(c, base) {
			val := 0
			for isDigit(c, base) {
				if base == 16 && c >= 'a' {
					val = val*base + int(c-'a') + 10
				} else {
					val = val*base + int(c-'0')
				}
				c = sp.read(s)
				s++
			}
			if neg {
				val = -val
				neg = false
			}
			sh.push(val)
			base = 10
			if c == 0 {
				return nil
			}
		}

		if c == '\n' {
			c = 'N'
		}

		if err := sh.tick(ctx); err != nil {
			return err
		}
		if sh.tracing {
			sh.traceStep(sp, s-1, c)
		}

		// special forms handled by the parser, not the dispatcher
		var left, right byte
		switch c {
		case ' ', ',', '\r', '\t':
			continue
		case '\'':
			if d := sp.read(s); d != 0 {
				sh.push(int(d))
				s++
			}
			continue
		case '{':
			left, right = '{', '}'
			sh.push(sp.linear(s))
		case '(':
			left, right = '(', ')'
		case '[':
			if sh.marker == -1 {
				sh.marker = sh.depth()
			}
			continue
		case ']':
			if sh.marker != -1 {
				sh.push(sh.depth() - sh.marker)
				sh.marker = -1
			}
			continue
		case '}':
			return nil
		}

		if left != 0 {
			n := 1
			for n != 0 {
				c = sp.read(s)
				s++
				if c == 0 {
					s--
					return sh.scriptError(sp, s, left, errUnterminated)
				}
				if c == left {
					n++
				} else if c == right {
					n--
				}
				if left == '(' && n > 0 {
					sh.writeByte(c)
				}
			}
			continue
		}

		if err := sh.exec1(ctx, sp, &s, c); err != nil {
			return err
		}
	}
}

// scanName consumes the maximal alphanumeric run at the cursor; names
// longer than nameMax keep only their leading bytes.
func scanName(sp space, s *int) string {
	start := *s
	for isAlnum(sp.read(*s)) {
		*s = *s + 1
	}
	name := make([]byte, 0, nameMax)
	for i := start; i < *s && len(name) < nameMax; i++ {
		name = append(name, sp.read(i))
	}
	return string(name)
}

// scriptEnd finds the extent of the block at local offset off: up to but
// not including its unbalanced close brace or null terminator.
func scriptEnd(sp space, off int) int {
	n := 1
	for {
		c := sp.read(off)
		if c == 0 {
			return off
		}
		if c == '{' {
			n++
		} else if c == '}' {
			n--
			if n == 0 {
				return off
			}
		}
		off++
	}
}

func (sh *Shell) traceStep(sp space, off int, c byte) {
	op := string(rune(c))
	if sh.mnemonics {
		if name, ok := opNames[c]; ok {
			op = name
		}
	}
	sh.writeString(fmt.Sprintf("%d %s:%d %s ", sh.cycle, sp.tag(), off, op))
	sh.printStack()
}

// printCaret re-prints the failing script with a marker under the cursor,
// the shape a serial console user expects from a bad line.
func (sh *Shell) printCaret(sp space, start, cur int) {
	last := byte('\n')
	for i := start; ; i++ {
		c := sp.read(i)
		if c == 0 {
			break
		}
		sh.writeByte(c)
		last = c
	}
	if last != '\n' {
		sh.writeByte('\n')
	}
	for i := start; i < cur-1; i++ {
		sh.writeByte(' ')
	}
	sh.writeString("^--?\n")
}

func isDigit(c byte, base int) bool {
	if base == 2 {
		return c == '0' || c == '1'
	}
	if base == 16 && c >= 'a' {
		return c <= 'f'
	}
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
