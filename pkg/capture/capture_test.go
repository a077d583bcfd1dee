package capture_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/franklin/pkg/capture"
)

func TestBufferWriteAndLines(t *testing.T) {
	buf, err := capture.NewBuffer()
	require.NoError(t, err)
	defer buf.Release()

	fmt.Fprintln(buf, "first line")
	fmt.Fprintln(buf, "second line")

	lines := buf.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "first line", lines[0])
	assert.Equal(t, "second line", lines[1])
}

func TestBufferTailReturnsLastLinesPrefixed(t *testing.T) {
	buf, err := capture.NewBuffer()
	require.NoError(t, err)
	defer buf.Release()

	for i := 1; i <= 10; i++ {
		fmt.Fprintf(buf, "line %d\n", i)
	}

	tail := buf.Tail(3)
	require.Len(t, tail, 3)
	assert.Equal(t, capture.TailIndent+"line 8", tail[0])
	assert.Equal(t, capture.TailIndent+"line 10", tail[2])
}

func TestBufferTailShorterThanLimit(t *testing.T) {
	buf, err := capture.NewBuffer()
	require.NoError(t, err)
	defer buf.Release()

	fmt.Fprintln(buf, "only line")

	tail := buf.Tail(40)
	require.Len(t, tail, 1)
	assert.True(t, strings.HasPrefix(tail[0], capture.TailIndent))
}

func TestBufferStripsCarriageReturns(t *testing.T) {
	buf, err := capture.NewBuffer()
	require.NoError(t, err)
	defer buf.Release()

	fmt.Fprint(buf, "progress\r\n")

	lines := buf.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "progress", lines[0])
}

func TestBufferReleaseRemovesFile(t *testing.T) {
	buf, err := capture.NewBuffer()
	require.NoError(t, err)

	path := buf.Path()
	_, err = os.Stat(path)
	require.NoError(t, err)

	buf.Release()
	assert.True(t, buf.Released())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestBufferReleaseIsIdempotent(t *testing.T) {
	buf, err := capture.NewBuffer()
	require.NoError(t, err)

	buf.Release()
	buf.Release()
	assert.True(t, buf.Released())
}

func TestBufferWriteAfterReleaseIsDropped(t *testing.T) {
	buf, err := capture.NewBuffer()
	require.NoError(t, err)
	buf.Release()

	n, err := buf.Write([]byte("late output\n"))
	assert.NoError(t, err)
	assert.Equal(t, len("late output\n"), n)
	assert.Nil(t, buf.Lines())
}
