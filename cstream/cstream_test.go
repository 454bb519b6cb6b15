package cstream

import (
	"io"
	"math"
	"testing"

	"github.com/256dpi/xo"
	"github.com/stretchr/testify/assert"
)

type countingBackend struct {
	reads   int
	seeks   int
	writes  int
	flushes int
	result  int64
}

func (b *countingBackend) Stream() *Stream {
	return NewStream(NewStreamContext(b), func(context *StreamContext, data []byte) int64 {
		backend := context.Value().(*countingBackend)
		backend.reads++
		return backend.result
	}, func(context *StreamContext, offset int64, mode SeekMode) int64 {
		backend := context.Value().(*countingBackend)
		backend.seeks++
		return backend.result
	}, func(context *StreamContext, data []byte) int64 {
		backend := context.Value().(*countingBackend)
		backend.writes++
		return backend.result
	}, func(context *StreamContext) int64 {
		backend := context.Value().(*countingBackend)
		backend.flushes++
		return backend.result
	})
}

func TestStreamOversizedBuffer(t *testing.T) {
	backend := &countingBackend{}
	stream := backend.Stream()

	n, err := stream.read(nil, uint64(math.MaxInt64)+1)
	assert.Error(t, err)
	assert.True(t, ErrOversizedBuffer.Is(err))
	assert.Zero(t, n)

	n, err = stream.write(nil, math.MaxUint64)
	assert.Error(t, err)
	assert.True(t, ErrOversizedBuffer.Is(err))
	assert.Zero(t, n)

	// no callback crossed the boundary
	assert.Zero(t, backend.reads)
	assert.Zero(t, backend.writes)
	assert.Zero(t, backend.seeks)
	assert.Zero(t, backend.flushes)
}

func TestStreamErrorDetail(t *testing.T) {
	stream := NewStream(NewStreamContext(nil), func(*StreamContext, []byte) int64 {
		SetLast(xo.F("synthetic failure"))
		return -1
	}, nil, func(*StreamContext, []byte) int64 {
		SetLast(xo.F("disk full"))
		return -1
	}, func(*StreamContext) int64 {
		SetLast(xo.F("flush exploded"))
		return -1
	})

	n, err := stream.Read(make([]byte, 4))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "synthetic failure")
	assert.Zero(t, n)

	n, err = stream.Write([]byte("foo"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Zero(t, n)

	err = stream.Flush()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "flush exploded")
}

func TestStreamGenericErrorDetail(t *testing.T) {
	// clear stale detail from previous operations
	_ = DefaultErrors.Take()

	// a sentinel without a recorded detail yields a generic error
	backend := &countingBackend{result: -1}
	stream := backend.Stream()

	n, err := stream.Read(make([]byte, 4))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "read failed")
	assert.Zero(t, n)

	err = stream.Flush()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "flush failed")
}

func TestStreamSlotOverride(t *testing.T) {
	slot := &ErrorSlot{}

	stream := NewStream(NewStreamContext(nil), func(*StreamContext, []byte) int64 {
		slot.Set(xo.F("routed detail"))
		return -1
	}, nil, nil, nil)
	stream.Errors = slot

	n, err := stream.Read(make([]byte, 4))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "routed detail")
	assert.Zero(t, n)
	assert.NoError(t, slot.Take())
}

func TestStreamNegativeSeekResult(t *testing.T) {
	// negative seek results are not treated as errors by the protocol
	backend := &countingBackend{result: -7}
	stream := backend.Stream()

	pos, err := stream.Seek(0, io.SeekStart)
	assert.NoError(t, err)
	assert.Equal(t, int64(-7), pos)
	assert.Equal(t, 1, backend.seeks)
}

func TestStreamInvalidWhence(t *testing.T) {
	backend := &countingBackend{}
	stream := backend.Stream()

	pos, err := stream.Seek(0, 7)
	assert.Error(t, err)
	assert.Zero(t, pos)
	assert.Zero(t, backend.seeks)
}

func TestStreamEmptyRead(t *testing.T) {
	backend := &countingBackend{}
	stream := backend.Stream()

	// a zero result for an empty buffer is not end of stream
	n, err := stream.Read(nil)
	assert.NoError(t, err)
	assert.Zero(t, n)

	// a zero result for a non-empty buffer is end of stream
	n, err = stream.Read(make([]byte, 4))
	assert.Equal(t, io.EOF, err)
	assert.Zero(t, n)
}

type closableBackend struct {
	closed int
}

func (b *closableBackend) Close() error {
	b.closed++
	return nil
}

func TestReleaseStream(t *testing.T) {
	// releasing a nil stream is a no-op
	ReleaseStream(nil)

	// releasing closes the boxed backend state exactly once
	backend := &closableBackend{}
	stream := NewStream(NewStreamContext(backend), nil, nil, nil, nil)
	ReleaseStream(stream)
	assert.Equal(t, 1, backend.closed)
}

func TestStreamClose(t *testing.T) {
	backend := &closableBackend{}
	stream := NewStream(NewStreamContext(backend), nil, nil, nil, nil)

	err := stream.Close()
	assert.NoError(t, err)
	assert.Equal(t, 1, backend.closed)
}

func TestExtractContext(t *testing.T) {
	backend := &countingBackend{}
	context := NewStreamContext(backend)
	stream := NewStream(context, nil, nil, nil, nil)

	extracted := stream.extractContext()
	assert.Equal(t, context, extracted)
	assert.Same(t, backend, extracted.Value())

	// the stream now holds an empty placeholder
	assert.NotEqual(t, context, stream.context)
	assert.Nil(t, stream.context.Value())
}
