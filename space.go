package main

// A space is one linear-addressed byte store that scripts can run from.
// Script text is fetched through local offsets; the stack and variable
// table only ever see linear addresses, so a block reference round-trips
// through linear/local conversion at the push and at the execute.
type space interface {
	tag() string
	read(local int) byte
	linear(local int) int
	local(linear int) int
}

// Linear addresses at or above nvmBase select the non-volatile store;
// negative addresses select read-only program storage; the rest is the
// volatile arena. Script bodies never mix spaces: the accessor is chosen
// once per execute call and block captures encode in that accessor.
const nvmBase = 1 << 20

func (sh *Shell) spaceFor(addr int) space {
	switch {
	case addr < 0:
		return romSpace{sh.roms}
	case addr >= nvmBase:
		return nvmSpace{sh.store}
	default:
		return ramSpace{sh.mem}
	}
}

type ramSpace struct{ mem *arena }

func (rs ramSpace) tag() string { return "ram" }
func (rs ramSpace) read(local int) byte {
	if rs.mem == nil || local < 0 || local >= len(rs.mem.buf) {
		return 0
	}
	return rs.mem.buf[local]
}
func (rs ramSpace) linear(local int) int { return local }
func (rs ramSpace) local(linear int) int { return linear }

// romSpace addresses grow away from zero: local offset i is linear -i-1,
// so offset 0 of the program image is linear -1.
type romSpace struct{ roms []byte }

func (ps romSpace) tag() string { return "rom" }
func (ps romSpace) read(local int) byte {
	if local < 0 || local >= len(ps.roms) {
		return 0
	}
	return ps.roms[local]
}
func (ps romSpace) linear(local int) int { return -local - 1 }
func (ps romSpace) local(linear int) int { return -linear - 1 }

type nvmSpace struct{ store *Store }

func (ns nvmSpace) tag() string { return "nvm" }
func (ns nvmSpace) read(local int) byte {
	if ns.store == nil {
		return 0
	}
	return ns.store.at(local)
}
func (ns nvmSpace) linear(local int) int { return local + nvmBase }
func (ns nvmSpace) local(linear int) int { return linear - nvmBase }
