package main

// The dictionary binds names to variable slots. It is insertion ordered
// and append only; lookup is a linear scan and the first match wins, so a
// redefinition only takes effect once the older entry is forgotten.
// Entries carrying a store record index are written through to the
// non-volatile image.

type entry struct {
	name string
	slot int
	rec  int
}

const nameMax = 15

// lookup finds the first entry bound to name.
func (sh *Shell) lookup(name string) (entry, bool) {
	for _, ent := range sh.dict {
		if ent.name == name {
			return ent, true
		}
	}
	return entry{}, false
}

// intern returns the slot bound to name, creating a volatile binding on
// first reference.
func (sh *Shell) intern(name string) int {
	if ent, ok := sh.lookup(name); ok {
		return ent.slot
	}
	slot := sh.nextSlot()
	sh.dict = append(sh.dict, entry{name: name, slot: slot, rec: -1})
	return slot
}

// define binds name to addr, persisting the binding when a store is
// attached.
func (sh *Shell) define(name string, addr int) int {
	slot := sh.nextSlot()
	rec := -1
	if sh.store != nil {
		rec = sh.store.addEntry(name, addr)
	}
	sh.dict = append(sh.dict, entry{name: name, slot: slot, rec: rec})
	sh.writeSlot(slot, addr)
	return slot
}

// slotName reports the first name bound to slot.
func (sh *Shell) slotName(slot int) (string, bool) {
	for _, ent := range sh.dict {
		if ent.slot == slot {
			return ent.name, true
		}
	}
	return "", false
}

// forget drops dictionary entries from the one bound to slot onward,
// truncating the store record table to match.
func (sh *Shell) forget(slot int) {
	for i, ent := range sh.dict {
		if ent.slot == slot {
			for _, gone := range sh.dict[i:] {
				if gone.rec >= 0 && sh.store != nil {
					sh.store.truncate(gone.rec)
					break
				}
			}
			sh.dict = sh.dict[:i]
			return
		}
	}
}

// readSlot resolves an address for the fetch opcode: negative addresses
// are stack cells counted from the bottom (the frame encoding), the rest
// are variable table slots. Out of range reads yield zero.
func (sh *Shell) readSlot(addr int) int {
	if addr < 0 {
		return sh.cellAt(-addr - 1)
	}
	if addr < len(sh.vars) {
		return sh.vars[addr]
	}
	return 0
}

// writeSlot is the store opcode's counterpart; out of range writes are
// dropped. A write to a persistent slot also updates its store record.
func (sh *Shell) writeSlot(addr, val int) {
	if addr < 0 {
		sh.setCellAt(-addr-1, val)
		return
	}
	if addr >= len(sh.vars) {
		return
	}
	sh.vars[addr] = val
	if sh.store != nil {
		for _, ent := range sh.dict {
			if ent.slot == addr && ent.rec >= 0 {
				sh.store.setEntryValue(ent.rec, val)
				break
			}
		}
	}
}
