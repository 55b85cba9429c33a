package main

import "encoding/binary"

// arena is the volatile byte space. Offset 0 is reserved so that no live
// block ever has address zero. The line region starting at offset 1 holds
// the script currently being evaluated and is reused every Eval; the heap
// region beyond it serves block copies with a small free list.
//
// Each heap block is preceded by a 2-byte little-endian size header; block
// addresses point just past the header.
type arena struct {
	buf      []byte
	lineSize int
	heapPtr  int
	free     []int
}

func newArena(size, lineSize int) *arena {
	return &arena{
		buf:      make([]byte, size),
		lineSize: lineSize,
		heapPtr:  1 + lineSize,
	}
}

// setLine copies src into the line region, null terminated, and returns
// the line's address. A source that does not fit reports false.
func (a *arena) setLine(src string) (int, bool) {
	if len(src)+1 > a.lineSize {
		return 0, false
	}
	n := copy(a.buf[1:], src)
	a.buf[1+n] = 0
	return 1, true
}

// alloc reserves n bytes on the heap, reusing the first freed block big
// enough to hold them. Returns 0 when the arena cannot serve the request.
func (a *arena) alloc(n int) int {
	if n <= 0 {
		return 0
	}
	for i, addr := range a.free {
		if a.blockSize(addr) >= n {
			a.free = append(a.free[:i], a.free[i+1:]...)
			return addr
		}
	}
	if a.heapPtr+2+n > len(a.buf) {
		return 0
	}
	addr := a.heapPtr + 2
	binary.LittleEndian.PutUint16(a.buf[a.heapPtr:], uint16(n))
	a.heapPtr = addr + n
	return addr
}

// freeBlock returns a heap block to the free list. Addresses outside the
// heap region are ignored.
func (a *arena) freeBlock(addr int) {
	if addr < 1+a.lineSize+2 || addr >= a.heapPtr {
		return
	}
	for _, f := range a.free {
		if f == addr {
			return
		}
	}
	a.free = append(a.free, addr)
}

func (a *arena) blockSize(addr int) int {
	if addr < 2 || addr > len(a.buf) {
		return 0
	}
	return int(binary.LittleEndian.Uint16(a.buf[addr-2:]))
}

func (a *arena) heapUsed() int { return a.heapPtr - 1 - a.lineSize }
