package main

import "context"

// exec1 executes one opcode. The cursor is only consulted by the few ops
// that read trailing bytes from the script: name binding, definition, and
// the trap escape. Everything else works the stack.
func (sh *Shell) exec1(ctx context.Context, sp space, s *int, c byte) error {
	switch c {

	case '~': // x -- ~x
		sh.tos = ^sh.tos
	case '&': // x y -- x&y
		n := sh.pop()
		sh.tos &= n
	case '|': // x y -- x|y
		n := sh.pop()
		sh.tos |= n
	case '^': // x y -- x^y
		n := sh.pop()
		sh.tos ^= n
	case '+': // x y -- x+y
		n := sh.pop()
		sh.tos += n
	case '-': // x y -- x-y
		n := sh.pop()
		sh.tos -= n
	case '*': // x y -- x*y
		n := sh.pop()
		sh.tos *= n
	case '/': // x y -- x/y, 0 when y is 0
		n := sh.pop()
		if n == 0 {
			sh.tos = 0
		} else {
			sh.tos /= n
		}
	case '%': // x y -- x%y, 0 when y is 0
		n := sh.pop()
		if n == 0 {
			sh.tos = 0
		} else {
			sh.tos %= n
		}

	case '#': // x y -- x!=y
		n := sh.pop()
		sh.tos = asBool(sh.tos != n)
	case '=': // x y -- x==y
		n := sh.pop()
		sh.tos = asBool(sh.tos == n)
	case '<': // x y -- x<y
		n := sh.pop()
		sh.tos = asBool(sh.tos < n)
	case '>': // x y -- x>y
		n := sh.pop()
		sh.tos = asBool(sh.tos > n)

	case '@': // addr -- val
		sh.tos = sh.readSlot(sh.tos)
	case '!': // val addr --
		addr := sh.pop()
		sh.writeSlot(addr, sh.pop())

	case '.': // x -- | print number and space
		sh.printNum(sh.pop())

	case '\\': // n -- | mark frame (n>0) or resolve with -n results
		n := sh.pop()
		if n > 0 {
			sh.frameMark(n)
		} else {
			sh.frameResolve(-n)
		}
	case '$': // i -- addr | address of i-th frame element
		sh.tos = -(sh.fp + sh.tos)

	case '`': // -- addr | lookup or create name, push its slot
		name := scanName(sp, s)
		if name == "" {
			return sh.scriptError(sp, *s-1, c, errBadName)
		}
		sh.push(sh.intern(name))
	case ':': // block -- | define name as a copy of block
		name := scanName(sp, s)
		if name == "" {
			return sh.scriptError(sp, *s-1, c, errBadName)
		}
		sh.define(name, sh.copyScript(sh.pop()))
	case ';': // addr -- | call the script bound to slot addr
		addr := sh.pop()
		if script := sh.readSlot(addr); script != 0 {
			return sh.run(ctx, script)
		}
	case '?': // addr -- | print the name bound to slot addr
		if name, ok := sh.slotName(sh.pop()); ok {
			sh.writeString(name)
		}

	case '_': // trap escape: hand the cursor to the host
		if sh.trap == nil {
			return sh.scriptError(sp, *s-1, c, errNoTrap)
		}
		next, err := sh.trap(sh, sp.linear(*s))
		if err != nil {
			return sh.scriptError(sp, *s-1, c, err)
		}
		*s = sp.local(next)

	case 'a': // block -- block' | copy block to the heap
		sh.tos = sh.heapCopy(sh.tos)
	case 'b': // base -- | set output base
		if n := sh.pop(); n >= 2 && n <= 36 {
			sh.obase = n
		}
	case 'c': // xn..x1 n -- | drop n elements
		if n := sh.pop(); n >= 0 && n <= sh.depth() {
			sh.setDepth(sh.depth() - n)
		}
	case 'd': // x -- x x
		sh.push(sh.tos)
	case 'e': // flag if else -- | execute one block
		blkElse := sh.pop()
		blkIf := sh.pop()
		blk := blkElse
		if sh.pop() != 0 {
			blk = blkIf
		}
		if blk != 0 {
			return sh.run(ctx, blk)
		}
	case 'f': // block -- | free heap block
		sh.mem.freeBlock(sh.pop())
	case 'g': // xn..x1 n -- xn-1..x1 xn | roll
		sh.roll(sh.pop())
	case 'h': // low high block -- | indexed loop
		blk := sh.pop()
		high := sh.pop()
		low := sh.pop()
		for i := low; i <= high; i++ {
			sh.push(i)
			if err := sh.run(ctx, blk); err != nil {
				return err
			}
			if err := sh.tick(ctx); err != nil {
				return err
			}
		}
	case 'i': // flag block -- | execute block if flag
		blk := sh.pop()
		if sh.pop() != 0 && blk != 0 {
			return sh.run(ctx, blk)
		}
	case 'j': // -- n | stack depth
		sh.push(sh.depth())
	case 'k': // -- [char -1] or 0 | non-blocking read
		if b, ok := sh.in.ReadAvailable(); ok {
			sh.push(int(b))
			sh.push(-1)
		} else {
			sh.push(0)
		}
	case 'l': // n block -- | execute block n times
		blk := sh.pop()
		for n := sh.pop(); n > 0; n-- {
			if err := sh.run(ctx, blk); err != nil {
				return err
			}
			if err := sh.tick(ctx); err != nil {
				return err
			}
		}
	case 'm': // -- | newline
		sh.writeByte('\n')
	case 'n': // x -- -x
		sh.tos = -sh.tos
	case 'o': // x y -- x y x
		sh.push(sh.cellAt(sh.depth() - 2))
	case 'p': // xn..x1 n -- xn..x1 xn | pick
		if n := sh.tos; n > 0 && n < sh.depth() {
			sh.tos = sh.stack[sh.sp+n-1]
		} else {
			sh.tos = 0
		}
	case 'q': // x -- x x or 0 | dup if not zero
		if sh.tos != 0 {
			sh.push(sh.tos)
		}
	case 'r': // x y z -- y z x
		z := sh.pop()
		y := sh.pop()
		x := sh.pop()
		sh.push(y)
		sh.push(z)
		sh.push(x)
	case 's': // x y -- y x
		y := sh.pop()
		x := sh.pop()
		sh.push(y)
		sh.push(x)
	case 't': // -- | toggle trace
		sh.tracing = !sh.tracing
	case 'u': // x --
		sh.pop()
	case 'v': // char -- | emit
		sh.writeByte(byte(sh.pop()))
	case 'w': // block -- | execute block while it leaves true
		blk := sh.pop()
		for {
			if err := sh.run(ctx, blk); err != nil {
				return err
			}
			if sh.pop() == 0 {
				return nil
			}
			if err := sh.tick(ctx); err != nil {
				return err
			}
		}
	case 'x': // script -- | execute
		if addr := sh.pop(); addr != 0 {
			return sh.run(ctx, addr)
		}
	case 'y': // -- | yield to host
		if sh.yield != nil {
			sh.yield()
		}
	case 'z': // -- | print stack
		sh.printStack()

	case 'A': // pin -- sample
		sh.tos = sh.dev.AnalogRead(sh.tos)
	case 'D': // ms --
		sh.dev.Delay(sh.pop())
	case 'E': // start ms -- flag | elapsed check
		ms := sh.pop()
		sh.tos = asBool(sh.dev.Millis()-sh.tos >= ms)
	case 'F': // -- 0
		sh.push(0)
	case 'H': // pin -- | high
		sh.dev.DigitalWrite(sh.pop(), true)
	case 'I': // pin -- | input mode
		sh.dev.PinMode(sh.pop(), PinInput)
	case 'K': // -- char | blocking read
		if sh.yield != nil {
			sh.yield()
		}
		b, err := sh.readByte()
		if err != nil {
			return err
		}
		sh.push(int(b))
	case 'L': // pin -- | low
		sh.dev.DigitalWrite(sh.pop(), false)
	case 'M': // -- ms
		sh.push(sh.dev.Millis())
	case 'N': // -- | no operation
	case 'O': // pin -- | output mode
		sh.dev.PinMode(sh.pop(), PinOutput)
	case 'P': // value pin -- | analog write
		pin := sh.pop()
		sh.dev.AnalogWrite(pin, sh.pop())
	case 'R': // pin -- flag
		sh.tos = asBool(sh.dev.DigitalRead(sh.tos))
	case 'T': // -- -1
		sh.push(-1)
	case 'U': // pin -- | input pullup mode
		sh.dev.PinMode(sh.pop(), PinInputPullup)
	case 'W': // value pin -- | digital write
		pin := sh.pop()
		sh.dev.DigitalWrite(pin, sh.pop() != 0)
	case 'Z': // addr -- | forget dictionary entries from slot addr
		sh.forget(sh.pop())

	default:
		return sh.scriptError(sp, *s-1, c, errBadOpcode)
	}
	return nil
}

func asBool(b bool) int {
	if b {
		return -1
	}
	return 0
}

// copyScript copies the block at addr into the store when one is attached,
// falling back to the heap. The returned address is 0 when neither space
// can hold it.
func (sh *Shell) copyScript(addr int) int {
	src, n := sh.scriptBytes(addr)
	if src == nil {
		return 0
	}
	if sh.store != nil {
		if off := sh.store.allocBytes(n + 1); off != 0 {
			copy(sh.store.buf[off:], src)
			sh.store.buf[off+n] = 0
			return nvmSpace{sh.store}.linear(off)
		}
	}
	return sh.heapCopyBytes(src)
}

// heapCopy copies the block at addr onto the heap, for blocks that must
// outlive the input line they were typed on.
func (sh *Shell) heapCopy(addr int) int {
	src, _ := sh.scriptBytes(addr)
	if src == nil {
		return 0
	}
	return sh.heapCopyBytes(src)
}

func (sh *Shell) heapCopyBytes(src []byte) int {
	dst := sh.mem.alloc(len(src) + 1)
	if dst == 0 {
		return 0
	}
	copy(sh.mem.buf[dst:], src)
	sh.mem.buf[dst+len(src)] = 0
	return dst
}

func (sh *Shell) scriptBytes(addr int) ([]byte, int) {
	if addr == 0 {
		return nil, 0
	}
	sp := sh.spaceFor(addr)
	off := sp.local(addr)
	end := scriptEnd(sp, off)
	buf := make([]byte, 0, end-off)
	for i := off; i < end; i++ {
		buf = append(buf, sp.read(i))
	}
	return buf, len(buf)
}

// opNames maps opcodes to the long-form mnemonics used by trace output.
var opNames = map[byte]string{
	'~': "not", '&': "and", '|': "or", '^': "xor",
	'+': "add", '-': "sub", '*': "mul", '/': "div", '%': "mod",
	'#': "ne", '=': "eq", '<': "lt", '>': "gt",
	'@': "fetch", '!': "store", '.': "print",
	'\\': "frame", '$': "elem",
	'`': "bind", ':': "define", ';': "call", '?': "named", '_': "trap",
	'a': "alloc", 'b': "base", 'c': "ndrop", 'd': "dup", 'e': "ifelse",
	'f': "free", 'g': "roll", 'h': "iloop", 'i': "if", 'j': "depth",
	'k': "key?", 'l': "loop", 'm': "cr", 'n': "neg", 'o': "over",
	'p': "pick", 'q': "qdup", 'r': "rot", 's': "swap", 't': "trace",
	'u': "drop", 'v': "emit", 'w': "while", 'x': "exec", 'y': "yield",
	'z': "stack",
	'A': "adc", 'D': "delay", 'E': "elapsed", 'F': "false",
	'H': "high", 'I': "input", 'K': "key", 'L': "low", 'M': "millis",
	'N': "nop", 'O': "output", 'P': "pwm", 'R': "read", 'T': "true",
	'U': "pullup", 'W': "write", 'Z': "forget",
}
