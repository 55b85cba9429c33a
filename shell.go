package main

// Shell is a byte-coded stack machine. Programs are literal strings of
// printable opcodes executed directly from whichever address space holds
// them. One Shell owns its operand stack, variable table, dictionary, and
// address spaces; independent instances do not share state.
type Shell struct {
	ioCore

	stack []int
	sp    int
	tos   int
	fp    int

	vars []int
	dict []entry

	mem   *arena
	roms  []byte
	progs []int
	store *Store

	marker int
	obase  int
	cycle  int

	tracing   bool
	mnemonics bool
	prompt    string

	dev   Device
	trap  TrapFunc
	yield func()

	stackSize int
	varSize   int
	arenaSize int
	lineSize  int
}

// TrapFunc handles the reserved escape opcode. It receives the linear
// address of the byte after the escape and returns the linear address at
// which execution resumes.
type TrapFunc func(sh *Shell, addr int) (int, error)

const defaultStackSize = 32
const defaultVarSize = 32
const defaultArenaSize = 4096
const defaultLineSize = 256

// finalize builds the sized state that options only described, then
// restores any persisted dictionary. Called once at the end of New.
func (sh *Shell) finalize() {
	if sh.stackSize <= 0 {
		sh.stackSize = defaultStackSize
	}
	if sh.varSize <= 0 {
		sh.varSize = defaultVarSize
	}
	if sh.arenaSize <= 0 {
		sh.arenaSize = defaultArenaSize
	}
	// arena addresses must stay below the non-volatile range
	if sh.arenaSize >= nvmBase {
		sh.arenaSize = nvmBase - 1
	}
	if sh.lineSize <= 0 || sh.lineSize >= sh.arenaSize {
		sh.lineSize = defaultLineSize
	}
	sh.stack = make([]int, sh.stackSize)
	sh.sp = len(sh.stack)
	sh.vars = make([]int, sh.varSize)
	sh.mem = newArena(sh.arenaSize, sh.lineSize)
	sh.marker = -1
	sh.obase = 10
	if sh.dev == nil {
		sh.dev = NewSimDevice()
	}
	sh.restore()
}

// restore rebuilds the dictionary from the non-volatile store in record
// order, so lookup resolves the same way it did before the power cycle.
func (sh *Shell) restore() {
	if sh.store == nil {
		return
	}
	for rec := 0; rec < sh.store.count(); rec++ {
		name, val, ok := sh.store.record(rec)
		if !ok {
			sh.logf("store: skipping bad record %v", rec)
			continue
		}
		slot := sh.nextSlot()
		sh.dict = append(sh.dict, entry{name: name, slot: slot, rec: rec})
		if slot >= 0 && slot < len(sh.vars) {
			sh.vars[slot] = val
		}
	}
}

func (sh *Shell) nextSlot() int {
	if len(sh.dict) == 0 {
		return 0
	}
	return sh.dict[len(sh.dict)-1].slot + 1
}

// program appends script source to the read-only program space, recording
// its start offset so Run can execute it at startup.
func (sh *Shell) program(src string) {
	sh.progs = append(sh.progs, len(sh.roms))
	sh.roms = append(sh.roms, src...)
	sh.roms = append(sh.roms, 0)
}
