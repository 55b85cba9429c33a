package byteio

import (
	"bufio"
	"io"
)

// Reader is an io.Reader that also supports reading single bytes, the unit
// the shell language is defined in.
type Reader interface {
	io.Reader
	io.ByteReader
}

// NewReader returns a Reader from r; if r already implements it, it is simply
// returned. Otherwise a bufio.Reader is used to provide byte reading around
// the given reader. If r implements Name() string, so will the returned
// Reader.
func NewReader(r io.Reader) Reader {
	if impl, ok := r.(Reader); ok {
		return impl
	}
	br := byteReader{bufio.NewReader(r)}
	if impl, ok := r.(interface{ Name() string }); ok {
		return namedByteReader{br, impl.Name()}
	}
	return br
}

type byteReader struct {
	*bufio.Reader
}

type namedByteReader struct {
	byteReader
	name string
}

func (nr namedByteReader) Name() string { return nr.name }
