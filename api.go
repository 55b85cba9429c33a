package main

import (
	"context"
	"errors"
	"io"

	"gosh/internal/panicerr"
)

// New builds a Shell from the default options plus any given overrides.
func New(opts ...Option) *Shell {
	var sh Shell
	sh.apply(opts...)
	sh.finalize()
	return &sh
}

// Eval executes one line of script source.
func (sh *Shell) Eval(src string) error {
	return sh.EvalContext(context.Background(), src)
}

// EvalContext executes one line of script source, checking ctx between
// opcodes. The line is staged into the volatile line buffer, so block
// references it pushes are only valid until the next Eval unless copied.
func (sh *Shell) EvalContext(ctx context.Context, src string) (rerr error) {
	defer panicerr.Recover(&rerr)
	defer func() {
		if ferr := sh.out.Flush(); rerr == nil {
			rerr = ferr
		}
	}()
	addr, ok := sh.mem.setLine(src)
	if !ok {
		return errLineOverflow
	}
	sh.cycle = 0
	return sh.run(ctx, addr)
}

var errLineOverflow = errors.New("input line exceeds line buffer")

// Run executes any registered programs, then reads and evaluates input
// lines until end of input or cancellation. Script errors do not end the
// session; in trace mode they have already printed their caret line.
func (sh *Shell) Run(ctx context.Context) (rerr error) {
	defer panicerr.Recover(&rerr)
	defer func() {
		if err := sh.flushStore(); rerr == nil {
			rerr = err
		}
	}()

	for _, off := range sh.progs {
		if err := sh.runProgram(ctx, off); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sh.prompt != "" && sh.in.Interactive {
			sh.writeString(sh.prompt)
		}
		if err := sh.out.Flush(); err != nil {
			return err
		}
		line, err := sh.in.ReadLine()
		if line != "" {
			if everr := sh.EvalContext(ctx, line); everr != nil {
				if isHardError(everr) {
					return everr
				}
				sh.logf("%v: %v", sh.in.Last.Location, everr)
			}
			if ferr := sh.flushStore(); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

func (sh *Shell) runProgram(ctx context.Context, off int) (rerr error) {
	defer func() {
		if ferr := sh.out.Flush(); rerr == nil {
			rerr = ferr
		}
	}()
	sh.cycle = 0
	return sh.run(ctx, romSpace{sh.roms}.linear(off))
}

func isHardError(err error) bool {
	var serr ScriptError
	if errors.As(err, &serr) {
		return false
	}
	return !errors.Is(err, io.EOF)
}

// Close flushes the store and output and releases any owned inputs.
func (sh *Shell) Close() error {
	err := sh.flushStore()
	if sh.out != nil {
		if ferr := sh.out.Flush(); err == nil {
			err = ferr
		}
	}
	if cerr := sh.ioCore.Close(); err == nil {
		err = cerr
	}
	return err
}

func (sh *Shell) flushStore() error {
	if sh.store == nil {
		return nil
	}
	return sh.store.Flush()
}

func WithInput(r io.Reader) Option   { return withInput{r} }
func WithInteractive(on bool) Option { return withInteractive(on) }
func WithOutput(w io.Writer) Option  { return withOutput{w} }
func WithTee(w io.Writer) Option     { return withTee{w} }
func WithLogf(logfn func(mess string, args ...interface{})) Option {
	return withLogfn(logfn)
}

func WithDevice(dev Device) Option     { return withDevice{dev} }
func WithStore(st *Store) Option       { return withStore{st} }
func WithStoreFile(path string) Option { return withStoreFile(path) }
func WithProgram(src string) Option    { return withProgram(src) }
func WithTrap(fn TrapFunc) Option      { return withTrap{fn} }
func WithYield(fn func()) Option       { return withYield{fn} }

func WithStackSize(n int) Option { return withStackSize(n) }
func WithVarSize(n int) Option   { return withVarSize(n) }
func WithHeapLimit(n int) Option { return withHeapLimit(n) }
func WithLineSize(n int) Option  { return withLineSize(n) }

func WithTrace(on bool) Option     { return withTrace(on) }
func WithMnemonics(on bool) Option { return withMnemonics(on) }
func WithPrompt(p string) Option   { return withPrompt(p) }
