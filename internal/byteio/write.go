package byteio

import "io"

// WriteByte writes a single byte to the given writer, preferring the
// writer's own io.ByteWriter fast path when it has one.
func WriteByte(w io.Writer, b byte) error {
	if bw, ok := w.(io.ByteWriter); ok {
		return bw.WriteByte(b)
	}
	_, err := w.Write([]byte{b})
	return err
}

// WriteString writes a string to the given writer, preferring the writer's
// own io.StringWriter fast path when it has one.
func WriteString(w io.Writer, s string) error {
	if sw, ok := w.(io.StringWriter); ok {
		_, err := sw.WriteString(s)
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}
