package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gosh/internal/logio"
)

type shellTestCases []shellTestCase

func (shts shellTestCases) run(t *testing.T) {
	{
		var exclusive []shellTestCase
		for _, sht := range shts {
			if sht.exclusive {
				exclusive = append(exclusive, sht)
			}
		}
		if len(exclusive) > 0 {
			shts = exclusive
		}
	}
	for _, sht := range shts {
		if !t.Run(sht.name, sht.run) {
			return
		}
	}
}

func shellTest(name string) (sht shellTestCase) {
	sht.name = name
	return sht
}

type shellTestCase struct {
	name    string
	opts    []interface{}
	evals   []string
	session bool
	expect  []func(t *testing.T, sh *Shell)
	timeout time.Duration
	wantErr error

	exclusive bool
}

func (sht shellTestCase) exclusiveTest() shellTestCase {
	sht.exclusive = true
	return sht
}

func (sht shellTestCase) withOptions(opts ...Option) shellTestCase {
	for _, opt := range opts {
		sht.opts = append(sht.opts, opt)
	}
	return sht
}

func (sht shellTestCase) withInput(input string) shellTestCase {
	return sht.withOptions(WithInput(strings.NewReader(input)))
}

// withTestOutput tees shell output into the test log.
func (sht shellTestCase) withTestOutput() shellTestCase {
	sht.opts = append(sht.opts, func(t *testing.T) Option {
		return WithTee(logio.NewWriter("out: ", t.Logf))
	})
	return sht
}

// eval queues script lines to be evaluated in order.
func (sht shellTestCase) eval(srcs ...string) shellTestCase {
	sht.evals = append(sht.evals, srcs...)
	return sht
}

// runSession runs the full Run loop (programs then input) after any
// queued eval lines.
func (sht shellTestCase) runSession() shellTestCase {
	sht.session = true
	return sht
}

func (sht shellTestCase) withTimeout(timeout time.Duration) shellTestCase {
	sht.timeout = timeout
	return sht
}

func (sht shellTestCase) expectError(err error) shellTestCase {
	sht.wantErr = err
	return sht
}

func (sht shellTestCase) expectStack(values ...int) shellTestCase {
	sht.expect = append(sht.expect, func(t *testing.T, sh *Shell) {
		if values == nil {
			values = []int{}
		}
		assert.Equal(t, values, sh.cells(), "expected stack values")
	})
	return sht
}

func (sht shellTestCase) expectOutput(output string) shellTestCase {
	var out strings.Builder
	sht.opts = append(sht.opts, WithOutput(&out))
	sht.expect = append(sht.expect, func(t *testing.T, sh *Shell) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return sht
}

func (sht shellTestCase) expectVar(slot, value int) shellTestCase {
	sht.expect = append(sht.expect, func(t *testing.T, sh *Shell) {
		assert.Equal(t, value, sh.readSlot(slot), "expected var @%v", slot)
	})
	return sht
}

func (sht shellTestCase) expectShell(fn func(t *testing.T, sh *Shell)) shellTestCase {
	sht.expect = append(sht.expect, fn)
	return sht
}

func (sht shellTestCase) buildShell(t *testing.T) *Shell {
	var opts []Option
	for _, opt := range sht.opts {
		switch o := opt.(type) {
		case Option:
			opts = append(opts, o)
		case func(t *testing.T) Option:
			opts = append(opts, o(t))
		default:
			t.Fatalf("bad shell test option type %T", opt)
		}
	}
	return New(opts...)
}

func (sht shellTestCase) run(t *testing.T) {
	sh := sht.buildShell(t)
	defer func() {
		if t.Failed() {
			var out strings.Builder
			shellDumper{sh: sh, out: &out}.dump()
			t.Logf("%s", out.String())
		}
	}()

	const defaultTimeout = time.Second
	timeout := sht.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := sht.runShell(ctx, sh)
	if sht.wantErr != nil {
		assert.True(t, errors.Is(err, sht.wantErr), "expected error: %v\ngot: %+v", sht.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected shell error")
	}

	if !t.Failed() {
		for _, expect := range sht.expect {
			expect(t, sh)
		}
	}
}

func (sht shellTestCase) runShell(ctx context.Context, sh *Shell) error {
	for _, src := range sht.evals {
		if err := sh.EvalContext(ctx, src); err != nil {
			return err
		}
	}
	if sht.session {
		return sh.Run(ctx)
	}
	return nil
}

func TestShell_scenarios(t *testing.T) {
	shellTestCases{
		shellTest("arith chain").
			eval("3,-5+6*.").
			expectOutput("-12 ").
			expectStack(),

		shellTest("iterative factorial").
			eval("5,1s{d0>{so*s1-T}{uF}e}w.").
			expectOutput("120 ").
			withTestOutput().
			expectStack(),

		shellTest("range check").
			eval("10,5,100rsos>sr<|~.").
			expectOutput("-1 ").
			expectStack(),

		shellTest("unknown opcode").
			eval("5Q").
			expectError(errBadOpcode).
			expectStack(5),

		shellTest("nested blocks").
			eval("{{1}x}x").
			expectStack(1),

		shellTest("stack marker count then sum").
			eval("[1,2,3]0s{+}l").
			expectStack(6),
	}.run(t)
}

func TestShell_literals(t *testing.T) {
	shellTestCases{
		shellTest("decimal").eval("42.").expectOutput("42 "),
		shellTest("negative decimal").eval("-42.").expectOutput("-42 "),
		shellTest("hex").eval("0x1f.").expectOutput("31 "),
		shellTest("binary").eval("0b101.").expectOutput("5 "),
		shellTest("zero").eval("0.").expectOutput("0 "),
		shellTest("char").eval("'A.").expectOutput("65 "),
		shellTest("quote at end is noop").eval("1'").expectStack(1),
		shellTest("bare hex prefix at end").eval("1,0x").expectStack(1),
		shellTest("bare binary prefix at end").eval("1,0b").expectStack(1),
		shellTest("bare minus subtracts").eval("7,3-.").expectOutput("4 "),
		shellTest("minus before nondigit subtracts").eval("5,2-d").expectStack(3, 3),
		shellTest("separators").eval("1 2\t3\r4,5").expectStack(1, 2, 3, 4, 5),

		shellTest("print hex base").eval("16b255.").expectOutput("0xff "),
		shellTest("print negative hex").eval("16b-255.").expectOutput("-0xff "),
		shellTest("print binary base").eval("2b5.").expectOutput("0b101 "),
		shellTest("base sticks between prints").eval("16b255.16.").expectOutput("0xff 0x10 "),
		shellTest("bad base ignored").eval("1b255.").expectOutput("255 "),
	}.run(t)
}

func TestShell_stackOps(t *testing.T) {
	shellTestCases{
		shellTest("dup").eval("5d").expectStack(5, 5),
		shellTest("drop").eval("5,6u").expectStack(5),
		shellTest("swap").eval("1,2s").expectStack(2, 1),
		shellTest("over").eval("1,2o").expectStack(1, 2, 1),
		shellTest("rot").eval("1,2,3r").expectStack(2, 3, 1),
		shellTest("pick").eval("10,20,30,2p").expectStack(10, 20, 30, 20),
		shellTest("pick out of range").eval("10,9p").expectStack(10, 0),
		shellTest("roll").eval("10,20,30,3g").expectStack(20, 30, 10),
		shellTest("roll out of range leaves stack").eval("10,20,9g").expectStack(10, 20),
		shellTest("depth").eval("1,2,3j").expectStack(1, 2, 3, 3),
		shellTest("qdup nonzero").eval("5q").expectStack(5, 5),
		shellTest("qdup zero").eval("0q").expectStack(0),
		shellTest("ndrop").eval("1,2,3,2c").expectStack(1),
		shellTest("ndrop out of range drops count only").eval("1,5c").expectStack(1),
		shellTest("negate").eval("5n").expectStack(-5),

		shellTest("underflow pops zero").eval(".").expectOutput("0 ").expectStack(),
		shellTest("underflow drop is safe").eval("u,u,u").expectStack(),

		shellTest("overflow drops push").
			withOptions(WithStackSize(4)).
			eval("1,2,3,4,5").
			expectStack(1, 2, 3, 4),
		shellTest("overflow keeps order under dup").
			withOptions(WithStackSize(3)).
			eval("1,2,3d").
			expectStack(1, 2, 3),
	}.run(t)
}

func TestShell_arith(t *testing.T) {
	shellTestCases{
		shellTest("add").eval("3,4+").expectStack(7),
		shellTest("sub").eval("3,4-").expectStack(-1),
		shellTest("mul").eval("3,4*").expectStack(12),
		shellTest("div").eval("12,4/").expectStack(3),
		shellTest("div truncates").eval("-7,2/").expectStack(-3),
		shellTest("div by zero").eval("5,0/").expectStack(0),
		shellTest("mod").eval("7,3%").expectStack(1),
		shellTest("mod by zero").eval("5,0%").expectStack(0),
		shellTest("not").eval("0~").expectStack(-1),
		shellTest("and").eval("6,3&").expectStack(2),
		shellTest("or").eval("6,3|").expectStack(7),
		shellTest("xor").eval("6,3^").expectStack(5),
		shellTest("eq true").eval("4,4=").expectStack(-1),
		shellTest("eq false").eval("4,5=").expectStack(0),
		shellTest("ne").eval("4,5#").expectStack(-1),
		shellTest("lt").eval("1,2<").expectStack(-1),
		shellTest("gt").eval("1,2>").expectStack(0),
		shellTest("true false").eval("TF").expectStack(-1, 0),
	}.run(t)
}

func TestShell_controlFlow(t *testing.T) {
	shellTestCases{
		shellTest("if taken").eval("T{(yes)}i").expectOutput("yes"),
		shellTest("if skipped").eval("F{(yes)}i").expectOutput(""),
		shellTest("ifelse then").eval("T{1}{2}e").expectStack(1),
		shellTest("ifelse else").eval("F{1}{2}e").expectStack(2),
		shellTest("loop").eval("0,4{1+}l").expectStack(4),
		shellTest("loop zero times").eval("7,0{1+}l").expectStack(7),
		shellTest("indexed loop sums").eval("0,1,5{+}h").expectStack(15),
		shellTest("indexed loop empty range").eval("9,5,1{+}h").expectStack(9),
		shellTest("while false once").eval("0{1+F}w").expectStack(1),
		shellTest("while counts down").eval("3{1-q}w").expectStack(),
		shellTest("while runaway is cancellable").
			withTimeout(50 * time.Millisecond).
			eval("{T}w").
			expectError(context.DeadlineExceeded),
		shellTest("block as data skips").eval("{1,2,3}u").expectStack(),
		shellTest("error aborts loop chain").
			eval("0,5{1+Q}l").
			expectError(errBadOpcode).
			expectStack(1),
	}.run(t)
}

func TestShell_output(t *testing.T) {
	shellTestCases{
		shellTest("string").eval("(hello)").expectOutput("hello"),
		shellTest("string nests").eval("(a(b)c)").expectOutput("a(b)c"),
		shellTest("newline").eval("m").expectOutput("\n"),
		shellTest("emit").eval("'*v").expectOutput("*"),
		shellTest("print stack").eval("1,2z").expectOutput("2: 1 2\n").expectStack(1, 2),
		shellTest("print empty stack").eval("z").expectOutput("0:\n"),
		shellTest("unterminated string").
			eval("(abc").
			expectError(errUnterminated).
			expectOutput("abc"),
		shellTest("unterminated block").
			eval("{1,2").
			expectError(errUnterminated),
	}.run(t)
}

func TestShell_markers(t *testing.T) {
	shellTestCases{
		shellTest("counts pushes").eval("[1,2,3]").expectStack(1, 2, 3, 3),
		shellTest("empty marker").eval("[]").expectStack(0),
		shellTest("second open is noop").eval("[1[2]").expectStack(1, 2, 2),
		shellTest("unmatched close is noop").eval("]7").expectStack(7),
		shellTest("survives across lines").eval("[1,2", "3]").expectStack(1, 2, 3, 3),
	}.run(t)
}

func TestShell_frames(t *testing.T) {
	shellTestCases{
		shellTest("read elements").
			eval("10,20,2\\1$@.2$@.0\\").
			expectOutput("10 20 ").
			expectStack(),
		shellTest("resolve keeps results").
			eval("1,2,3,2\\100,-1\\").
			expectStack(1, 100),
		shellTest("write element").
			eval("5,6,2\\7,1$!-2\\").
			expectStack(7, 6),
		shellTest("untouched cells unchanged").
			eval("1,2,3,4,2\\-2\\").
			expectStack(1, 2, 3, 4),
		shellTest("frame scoped per call").
			eval("10,1\\{20,1\\1$@}x,1$@").
			expectStack(10, 20, 20, 10),
		shellTest("mark clamps to empty").
			eval("1,9\\-1\\").
			expectStack(1),
	}.run(t)
}

func TestShell_vars(t *testing.T) {
	shellTestCases{
		shellTest("write read").eval("42,3!3@").expectStack(42).expectVar(3, 42),
		shellTest("out of range read").eval("9999@").expectStack(0),
		shellTest("out of range write dropped").eval("1,9999!j").expectStack(0),
		shellTest("vars start zero").eval("0@,1@").expectStack(0, 0),
	}.run(t)
}

var errTrapTest = errors.New("trap handler refused")

func TestShell_trap(t *testing.T) {
	shellTestCases{
		shellTest("missing handler").
			eval("_").
			expectError(errNoTrap),
		shellTest("handler pushes").
			withOptions(WithTrap(func(sh *Shell, addr int) (int, error) {
				sh.push(10)
				return addr, nil
			})).
			eval("_5+.").
			expectOutput("15 "),
		shellTest("handler consumes bytes").
			withOptions(WithTrap(func(sh *Shell, addr int) (int, error) {
				return addr + 2, nil
			})).
			eval("_ab7.").
			expectOutput("7 "),
		shellTest("handler failure propagates").
			withOptions(WithTrap(func(sh *Shell, addr int) (int, error) {
				return 0, errTrapTest
			})).
			eval("5_").
			expectError(errTrapTest).
			expectStack(5),
	}.run(t)
}

func TestShell_yield(t *testing.T) {
	var count int
	shellTestCases{
		shellTest("yield calls the hook").
			withOptions(WithYield(func() { count++ })).
			eval("yyy").
			expectShell(func(t *testing.T, sh *Shell) {
				assert.Equal(t, 3, count, "expected yield count")
			}),
	}.run(t)
}

func TestShell_input(t *testing.T) {
	shellTestCases{
		shellTest("nonblocking read empty").
			eval("k").
			expectStack(0),
		shellTest("nonblocking read available").
			withInput("B").
			eval("k").
			expectStack(66, -1),
		shellTest("blocking read").
			withInput("A").
			eval("K.").
			expectOutput("65 "),
	}.run(t)
}

func TestShell_programs(t *testing.T) {
	shellTestCases{
		shellTest("program runs at startup").
			withOptions(WithProgram("2,3*.")).
			runSession().
			expectOutput("6 "),
		shellTest("program block executes from its own space").
			withOptions(WithProgram("{(hi)}x")).
			runSession().
			expectOutput("hi"),
		shellTest("programs run in order").
			withOptions(WithProgram("1."), WithProgram("2.")).
			runSession().
			expectOutput("1 2 "),
		shellTest("session evaluates lines").
			withInput("3,4+.\n10,2*.\n").
			runSession().
			expectOutput("7 20 "),
		shellTest("session survives bad line").
			withInput("5Q\n1.\n").
			runSession().
			expectOutput("1 "),
	}.run(t)
}

func TestShell_independentInstances(t *testing.T) {
	a := New()
	b := New()
	assert.NoError(t, a.Eval("1,2,3"))
	assert.NoError(t, b.Eval("9"))
	assert.Equal(t, []int{1, 2, 3}, a.cells())
	assert.Equal(t, []int{9}, b.cells())
}

func TestShell_lineOverflow(t *testing.T) {
	sh := New(WithLineSize(8))
	err := sh.Eval("1,2,3,4,5,6,7,8")
	assert.ErrorIs(t, err, errLineOverflow)
}
