package main

import (
	"bytes"
	"io"

	"gosh/internal/flushio"
)

// Option configures a Shell under construction.
type Option interface{ apply(sh *Shell) }

var defaultOptions = options(
	withInput{bytes.NewReader(nil)},
	withOutput{io.Discard},
)

func options(opts ...Option) Option { return optionList(opts) }

type optionList []Option

func (opts optionList) apply(sh *Shell) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(sh)
		}
	}
}

func (sh *Shell) apply(opts ...Option) {
	defaultOptions.apply(sh)
	optionList(opts).apply(sh)
}

type withLogfn func(mess string, args ...interface{})
type withInput struct{ r io.Reader }
type withInteractive bool
type withOutput struct{ w io.Writer }
type withTee struct{ w io.Writer }
type withDevice struct{ dev Device }
type withStore struct{ st *Store }
type withStoreFile string
type withProgram string
type withTrap struct{ fn TrapFunc }
type withYield struct{ fn func() }
type withStackSize int
type withVarSize int
type withHeapLimit int
type withLineSize int
type withTrace bool
type withMnemonics bool
type withPrompt string

func (logfn withLogfn) apply(sh *Shell) { sh.logfn = logfn }

func (o withInput) apply(sh *Shell) {
	sh.in.Queue = []io.Reader{o.r}
	if cl, ok := o.r.(io.Closer); ok {
		sh.closers = append(sh.closers, cl)
	}
}

func (o withInteractive) apply(sh *Shell) { sh.in.Interactive = bool(o) }

func (o withOutput) apply(sh *Shell) {
	if sh.out != nil {
		sh.out.Flush()
	}
	sh.out = flushio.NewWriteFlusher(o.w)
}

func (o withTee) apply(sh *Shell) {
	sh.out = flushio.WriteFlushers(sh.out, flushio.NewWriteFlusher(o.w))
}

func (o withDevice) apply(sh *Shell) { sh.dev = o.dev }
func (o withStore) apply(sh *Shell)  { sh.store = o.st }

// withStoreFile loads the image best effort; callers that care about load
// errors use LoadStoreFile and WithStore instead.
func (o withStoreFile) apply(sh *Shell) {
	st, err := LoadStoreFile(string(o), DefaultStoreSize)
	if err != nil {
		sh.logf("store %q: %v", string(o), err)
		st = NewStore(DefaultStoreSize)
		st.path = string(o)
	}
	sh.store = st
}

func (o withProgram) apply(sh *Shell)   { sh.program(string(o)) }
func (o withTrap) apply(sh *Shell)      { sh.trap = o.fn }
func (o withYield) apply(sh *Shell)     { sh.yield = o.fn }
func (o withStackSize) apply(sh *Shell) { sh.stackSize = int(o) }
func (o withVarSize) apply(sh *Shell)   { sh.varSize = int(o) }
func (o withHeapLimit) apply(sh *Shell) { sh.arenaSize = int(o) }
func (o withLineSize) apply(sh *Shell)  { sh.lineSize = int(o) }
func (o withTrace) apply(sh *Shell)     { sh.tracing = bool(o) }
func (o withMnemonics) apply(sh *Shell) { sh.mnemonics = bool(o) }
func (o withPrompt) apply(sh *Shell)    { sh.prompt = string(o) }
