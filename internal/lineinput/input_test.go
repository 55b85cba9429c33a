package lineinput

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput_readLine(t *testing.T) {
	var in Input
	in.Queue = []io.Reader{NamedReader("test", strings.NewReader("one\ntwo\nthree"))}

	line, err := in.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "one", line)
	assert.Equal(t, "test", in.Last.Name)
	assert.Equal(t, 1, in.Last.Line)

	line, err = in.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "two", line)
	assert.Equal(t, 2, in.Last.Line)

	line, err = in.ReadLine()
	assert.Equal(t, io.EOF, err, "final unterminated line comes with EOF")
	assert.Equal(t, "three", line)

	_, err = in.ReadLine()
	assert.Equal(t, io.EOF, err)
}

func TestInput_queueAdvance(t *testing.T) {
	var in Input
	in.Queue = []io.Reader{
		NamedReader("a", strings.NewReader("1")),
		NamedReader("b", strings.NewReader("2")),
	}

	c, err := in.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('1'), c)
	assert.Equal(t, "a", in.Scan.Name)

	c, err = in.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('2'), c)
	assert.Equal(t, "b", in.Scan.Name)

	_, err = in.ReadByte()
	assert.Equal(t, io.EOF, err)
}

func TestInput_readAvailable(t *testing.T) {
	var in Input
	in.Queue = []io.Reader{strings.NewReader("x")}

	c, ok := in.ReadAvailable()
	assert.True(t, ok)
	assert.Equal(t, byte('x'), c)

	_, ok = in.ReadAvailable()
	assert.False(t, ok, "exhausted input reports nothing available")
}

func TestInput_locationString(t *testing.T) {
	loc := Location{Name: "test", Line: 3}
	assert.Equal(t, "test:3", loc.String())
}
