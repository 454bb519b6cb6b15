package cstream

import (
	"io"

	"github.com/stretchr/testify/assert"
)

// Tester is a common interface implemented by test objects.
type Tester interface {
	Errorf(format string, args ...interface{})
}

// TestStream will test the provided stream for read conformance with the
// bridge contract. The stream must be positioned at the start and contain
// exactly the bytes "Hello World!".
func TestStream(t Tester, stream *Stream) {
	buf := make([]byte, 2)

	n, err := stream.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("He"), buf)

	// partial read with an oversized buffer

	big := make([]byte, 20)
	n, err = stream.Read(big)
	assert.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, []byte("llo World!"), big[:n])
	assert.Equal(t, make([]byte, 10), big[n:])

	// end of stream

	n, err = stream.Read(buf)
	assert.Equal(t, io.EOF, err)
	assert.Zero(t, n)
}

// TestStreamSeek will test the provided stream for seek conformance with
// the bridge contract. The stream must contain exactly the bytes
// "Hello World!".
func TestStreamSeek(t Tester, stream *Stream) {
	buf := make([]byte, 2)

	// from start

	pos, err := stream.Seek(2, io.SeekStart)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), pos)

	n, err := stream.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("ll"), buf)

	// from current (positive)

	pos, err = stream.Seek(3, io.SeekCurrent)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), pos)

	n, err = stream.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("or"), buf)

	// from current (negative)

	pos, err = stream.Seek(-4, io.SeekCurrent)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), pos)

	n, err = stream.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte(" W"), buf)

	// from end

	pos, err = stream.Seek(-3, io.SeekEnd)
	assert.NoError(t, err)
	assert.Equal(t, int64(9), pos)

	n, err = stream.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("ld"), buf)

	// underflow (negative results pass through without error)

	pos, err = stream.Seek(-2, io.SeekStart)
	assert.NoError(t, err)
	assert.Equal(t, int64(-1), pos)

	// overflow (seeking past the end is allowed, reads yield end of stream)

	pos, err = stream.Seek(15, io.SeekStart)
	assert.NoError(t, err)
	assert.Equal(t, int64(15), pos)

	n, err = stream.Read(buf)
	assert.Equal(t, io.EOF, err)
	assert.Zero(t, n)

	// rewind

	pos, err = stream.Seek(0, io.SeekStart)
	assert.NoError(t, err)
	assert.Zero(t, pos)

	n, err = stream.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("He"), buf)
}

// TestStreamWrite will test the provided stream for write conformance with
// the bridge contract. The stream must contain exactly the bytes
// "Hello World!" and will contain "Hello World!+++" afterwards.
func TestStreamWrite(t Tester, stream *Stream) {
	// write at the end

	pos, err := stream.Seek(0, io.SeekEnd)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), pos)

	n, err := stream.Write([]byte("+++"))
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	// flush

	err = stream.Flush()
	assert.NoError(t, err)

	// verify growth and position

	pos, err = stream.Seek(0, io.SeekEnd)
	assert.NoError(t, err)
	assert.Equal(t, int64(15), pos)

	// verify content

	pos, err = stream.Seek(0, io.SeekStart)
	assert.NoError(t, err)
	assert.Zero(t, pos)

	content, err := io.ReadAll(stream)
	assert.NoError(t, err)
	assert.Equal(t, []byte("Hello World!+++"), content)
}
