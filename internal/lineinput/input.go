package lineinput

import (
	"bytes"
	"fmt"
	"io"

	"gosh/internal/byteio"
)

// Location names a line in an Input source.
type Location struct {
	Name string
	Line int
}

// Line combines a Location along with a bytes.Buffer holding its content.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Buffer.String()) }

// Input implements sequential byte reading through a Queue of one or more
// input sources. Both the current and last completed lines are tracked so
// that script errors can be reported against their source line.
//
// The shell reads its command lines and its k/K key opcodes from the same
// Input, mirroring a device shell that owns a single serial stream.
type Input struct {
	br    byteio.Reader
	Queue []io.Reader
	Last  Line
	Scan  Line

	// Interactive marks the current source as a terminal: ReadAvailable
	// then only yields bytes that are already buffered, instead of
	// blocking on the underlying device.
	Interactive bool
}

// ReadByte reads one byte from the current source, appending it into the
// current Scan line, and rolling Scan over to Last after line feed. Sources
// are advanced through the Queue on EOF.
func (in *Input) ReadByte() (byte, error) {
	for {
		if in.br == nil && !in.nextIn() {
			return 0, io.EOF
		}
		c, err := in.br.ReadByte()
		if err == io.EOF {
			if in.nextIn() {
				continue
			}
			return 0, io.EOF
		} else if err != nil {
			return 0, err
		}
		if c == '\n' {
			in.nextLine()
		} else {
			in.Scan.WriteByte(c)
		}
		return c, nil
	}
}

// ReadAvailable reads one byte only if one can be had without waiting on an
// interactive source. It reports false when no byte is available.
func (in *Input) ReadAvailable() (byte, bool) {
	if in.Interactive {
		buffered, ok := in.br.(interface{ Buffered() int })
		if !ok || buffered.Buffered() == 0 {
			return 0, false
		}
	}
	c, err := in.ReadByte()
	if err != nil {
		return 0, false
	}
	return c, true
}

// ReadLine reads up to the next line feed (which is consumed but not
// returned) and returns the line content. A non-empty final line without a
// line feed is returned along with io.EOF.
func (in *Input) ReadLine() (string, error) {
	var sb bytes.Buffer
	for {
		c, err := in.ReadByte()
		if err != nil {
			return sb.String(), err
		}
		if c == '\n' {
			return sb.String(), nil
		}
		sb.WriteByte(c)
	}
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Name = in.Scan.Name
	in.Last.Line = in.Scan.Line
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

func (in *Input) nextIn() bool {
	in.nextLine()
	if in.br != nil {
		if cl, ok := in.br.(io.Closer); ok {
			cl.Close()
		}
		in.br = nil
	}
	if len(in.Queue) > 0 {
		r := in.Queue[0]
		in.Queue = in.Queue[1:]
		in.br = byteio.NewReader(r)
		in.Scan.Name = nameOf(r)
		in.Scan.Line = 1
	}
	return in.br != nil
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}

// NamedReader attaches a name to a reader so that Input locations (and any
// error reported against them) carry it.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
