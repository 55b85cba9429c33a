package main

import (
	"fmt"
	"io"
	"strconv"

	"gosh/internal/byteio"
	"gosh/internal/flushio"
	"gosh/internal/lineinput"
)

type ioCore struct {
	in  lineinput.Input
	out flushio.WriteFlusher

	logfn   func(mess string, args ...interface{})
	closers []io.Closer
}

func (ioc *ioCore) Close() (err error) {
	for i := len(ioc.closers) - 1; i >= 0; i-- {
		if cerr := ioc.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (ioc ioCore) logf(mess string, args ...interface{}) {
	if ioc.logfn != nil {
		ioc.logfn(mess, args...)
	}
}

// halt aborts the shell with a hard (non-script) error, flushing whatever
// output already accumulated. Recovered at the Run/Eval boundary.
func (ioc *ioCore) halt(err error) {
	func() {
		defer func() { recover() }()
		if ioc.out != nil {
			if ferr := ioc.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()
	func() {
		defer func() { recover() }()
		ioc.logf("halt error: %v", err)
	}()
	panic(haltError{err})
}

func (ioc *ioCore) writeByte(c byte) {
	if err := byteio.WriteByte(ioc.out, c); err != nil {
		ioc.halt(err)
	}
}

func (ioc *ioCore) writeString(s string) {
	if err := byteio.WriteString(ioc.out, s); err != nil {
		ioc.halt(err)
	}
}

// readByte blocks for the next input byte, flushing output first so a
// prompt or echo is visible before the wait.
func (ioc *ioCore) readByte() (byte, error) {
	if err := ioc.out.Flush(); err != nil {
		ioc.halt(err)
	}
	c, err := ioc.in.ReadByte()
	if err != nil && err != io.EOF {
		ioc.halt(err)
	}
	return c, err
}

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }

// printNum writes v in the shell's output base followed by one space; the
// prefixed bases echo their literal syntax back.
func (sh *Shell) printNum(v int) {
	sh.writeString(formatNum(v, sh.obase))
	sh.writeByte(' ')
}

func formatNum(v, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	var prefix string
	switch base {
	case 16:
		prefix = "0x"
	case 2:
		prefix = "0b"
	default:
		return strconv.FormatInt(int64(v), base)
	}
	u := uint64(int64(v))
	if v < 0 {
		return "-" + prefix + strconv.FormatUint(-u, base)
	}
	return prefix + strconv.FormatUint(u, base)
}

// printStack writes the diagnostic stack snapshot, depth first, bottom to
// top, always in decimal.
func (sh *Shell) printStack() {
	n := sh.depth()
	sh.writeString(strconv.Itoa(n))
	sh.writeByte(':')
	for i := 0; i < n; i++ {
		sh.writeByte(' ')
		sh.writeString(strconv.Itoa(sh.cellAt(i)))
	}
	sh.writeByte('\n')
}
