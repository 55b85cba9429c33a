// Package logio adapts printf-style log functions for use as io.Writers.
package logio

import "bytes"

// Writer adapts a printf-style log function to io.Writer, buffering partial
// lines, logging each complete line written through it.
type Writer struct {
	Logf   func(string, ...interface{})
	prefix string
	buf    bytes.Buffer
}

// NewWriter creates a log writer with a fixed message prefix.
func NewWriter(prefix string, logf func(string, ...interface{})) *Writer {
	return &Writer{Logf: logf, prefix: prefix}
}

func (lw *Writer) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			lw.buf.Write(p)
			break
		}
		lw.buf.Write(p[:i])
		lw.flushLine()
		p = p[i+1:]
	}
	return n, nil
}

// Close flushes any final partial line.
func (lw *Writer) Close() error {
	if lw.buf.Len() > 0 {
		lw.flushLine()
	}
	return nil
}

func (lw *Writer) flushLine() {
	if lw.Logf != nil {
		lw.Logf("%s%s", lw.prefix, lw.buf.String())
	}
	lw.buf.Reset()
}
