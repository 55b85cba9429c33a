package main

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Store is the non-volatile space: a fixed byte image modeled after a
// small EEPROM. The header carries a two byte sentinel, the record count,
// and a free pointer. Records of {name pointer, value} grow up from the
// header while names and script bodies are allocated down from the top.
//
// Image layout, all little endian:
//
//	[0]   0xA5
//	[1]   0x5A
//	[2:4] record count (uint16)
//	[4:6] free pointer (uint16), bottom of the name/script region
//	[6:]  records, 6 bytes each: name pointer (uint16), value (int32)
type Store struct {
	buf   []byte
	path  string
	dirty bool
}

const (
	storeMagic0 = 0xA5
	storeMagic1 = 0x5A
	storeHdr    = 6
	storeRecLen = 6

	// DefaultStoreSize is the image size used when none is given.
	DefaultStoreSize = 4096
)

// NewStore returns a freshly formatted in-memory store image.
func NewStore(size int) *Store {
	if size < storeHdr+storeRecLen || size > 0xFFFF {
		size = DefaultStoreSize
	}
	st := &Store{buf: make([]byte, size)}
	st.format()
	return st
}

// LoadStoreFile loads a store image from path. A missing file or an image
// that fails sentinel or bounds validation yields a fresh formatted store
// bound to the same path, never garbage dictionary state.
func LoadStoreFile(path string, size int) (*Store, error) {
	st := NewStore(size)
	st.path = path
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return st, nil
	} else if err != nil {
		return nil, err
	}
	if len(data) == len(st.buf) {
		copy(st.buf, data)
		if !st.valid() {
			st.format()
		}
	}
	return st, nil
}

// Flush writes a dirty image back to its file, if it has one.
func (st *Store) Flush() error {
	if !st.dirty || st.path == "" {
		return nil
	}
	if err := os.WriteFile(st.path, st.buf, 0644); err != nil {
		return fmt.Errorf("store flush: %w", err)
	}
	st.dirty = false
	return nil
}

func (st *Store) format() {
	for i := range st.buf {
		st.buf[i] = 0
	}
	st.buf[0] = storeMagic0
	st.buf[1] = storeMagic1
	st.setCount(0)
	st.setFreePtr(len(st.buf))
	st.dirty = true
}

func (st *Store) valid() bool {
	if st.buf[0] != storeMagic0 || st.buf[1] != storeMagic1 {
		return false
	}
	n, fp := st.count(), st.freePtr()
	return storeHdr+n*storeRecLen <= fp && fp <= len(st.buf)
}

func (st *Store) count() int   { return int(binary.LittleEndian.Uint16(st.buf[2:])) }
func (st *Store) freePtr() int { return int(binary.LittleEndian.Uint16(st.buf[4:])) }

func (st *Store) setCount(n int) {
	binary.LittleEndian.PutUint16(st.buf[2:], uint16(n))
	st.dirty = true
}

func (st *Store) setFreePtr(p int) {
	binary.LittleEndian.PutUint16(st.buf[4:], uint16(p))
	st.dirty = true
}

// at reads one image byte; out of bounds reads as a null terminator.
func (st *Store) at(off int) byte {
	if off < 0 || off >= len(st.buf) {
		return 0
	}
	return st.buf[off]
}

// allocBytes claims n bytes from the top-down region and returns their
// offset, or 0 when the image is full.
func (st *Store) allocBytes(n int) int {
	fp := st.freePtr() - n
	if fp < storeHdr+(st.count()+1)*storeRecLen {
		return 0
	}
	st.setFreePtr(fp)
	return fp
}

// allocString copies s, null terminated, into the top-down region.
func (st *Store) allocString(s string) int {
	off := st.allocBytes(len(s) + 1)
	if off == 0 {
		return 0
	}
	copy(st.buf[off:], s)
	st.buf[off+len(s)] = 0
	return off
}

// addEntry appends a {name, value} record and returns its index, or -1
// when either the record table or the name region is out of room.
func (st *Store) addEntry(name string, value int) int {
	n := st.count()
	if storeHdr+(n+1)*storeRecLen > st.freePtr() {
		return -1
	}
	namePtr := st.allocString(name)
	if namePtr == 0 {
		return -1
	}
	rec := st.buf[storeHdr+n*storeRecLen:]
	binary.LittleEndian.PutUint16(rec, uint16(namePtr))
	binary.LittleEndian.PutUint32(rec[2:], uint32(int32(value)))
	st.setCount(n + 1)
	return n
}

// setEntryValue rewrites the value of an existing record.
func (st *Store) setEntryValue(rec, value int) {
	if rec < 0 || rec >= st.count() {
		return
	}
	binary.LittleEndian.PutUint32(st.buf[storeHdr+rec*storeRecLen+2:], uint32(int32(value)))
	st.dirty = true
}

// record reads record rec back as its name and value.
func (st *Store) record(rec int) (name string, value int, ok bool) {
	if rec < 0 || rec >= st.count() {
		return "", 0, false
	}
	b := st.buf[storeHdr+rec*storeRecLen:]
	namePtr := int(binary.LittleEndian.Uint16(b))
	value = int(int32(binary.LittleEndian.Uint32(b[2:])))
	if namePtr < storeHdr || namePtr >= len(st.buf) {
		return "", 0, false
	}
	end := namePtr
	for end < len(st.buf) && st.buf[end] != 0 {
		end++
	}
	return string(st.buf[namePtr:end]), value, true
}

// truncate forgets records from rec onward. Their name and script bytes
// are not reclaimed; the free pointer only recovers on a reformat.
func (st *Store) truncate(rec int) {
	if rec < 0 || rec >= st.count() {
		return
	}
	st.setCount(rec)
}
