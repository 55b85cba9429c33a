package main

import (
	"fmt"
	"io"
)

// shellDumper writes a diagnostic snapshot of a Shell; tests use it to
// explain a failure.
type shellDumper struct {
	sh  *Shell
	out io.Writer
}

func (dump shellDumper) dump() {
	sh := dump.sh
	fmt.Fprintf(dump.out, "# Shell Dump\n")

	fmt.Fprintf(dump.out, "  stack(%v/%v):", sh.depth(), len(sh.stack))
	for i := 0; i < sh.depth(); i++ {
		fmt.Fprintf(dump.out, " %v", sh.cellAt(i))
	}
	fmt.Fprintf(dump.out, "\n")
	fmt.Fprintf(dump.out, "  fp: %v marker: %v base: %v cycle: %v\n",
		sh.fp, sh.marker, sh.obase, sh.cycle)

	for i, v := range sh.vars {
		if v != 0 {
			fmt.Fprintf(dump.out, "  var @%v = %v\n", i, v)
		}
	}

	for _, ent := range sh.dict {
		if ent.rec >= 0 {
			fmt.Fprintf(dump.out, "  dict %q slot=%v rec=%v\n", ent.name, ent.slot, ent.rec)
		} else {
			fmt.Fprintf(dump.out, "  dict %q slot=%v\n", ent.name, ent.slot)
		}
	}

	if sh.mem != nil {
		fmt.Fprintf(dump.out, "  heap: %v bytes used, %v free blocks\n",
			sh.mem.heapUsed(), len(sh.mem.free))
	}
	if sh.store != nil {
		fmt.Fprintf(dump.out, "  store: %v records, free ptr %v of %v\n",
			sh.store.count(), sh.store.freePtr(), len(sh.store.buf))
	}
	if len(sh.roms) > 0 {
		fmt.Fprintf(dump.out, "  rom: %v bytes, %v programs\n", len(sh.roms), len(sh.progs))
	}
}
