// Package cstream bridges foreign stream backends into native Go streams. A
// backend is defined by an opaque context and four callbacks (read, seek,
// write and flush) that communicate failures using negative sentinel results
// and a last-error slot. The bridge owns the context for its lifetime and
// implements the standard stream interfaces on top of the callbacks.
package cstream

import (
	"io"
	"math"

	"github.com/256dpi/xo"
)

// SeekMode defines the origin of a seek request.
type SeekMode int

// The available seek modes.
const (
	SeekModeStart   SeekMode = 0
	SeekModeCurrent SeekMode = 1
	SeekModeEnd     SeekMode = 2
)

// StreamContext is an opaque handle to backend specific state. The bridge
// never inspects the boxed value, it only forwards the handle to callbacks.
// A context must be owned by at most one stream at a time.
type StreamContext struct {
	value interface{}
}

// NewStreamContext will box the provided backend state as a context.
func NewStreamContext(value interface{}) *StreamContext {
	return &StreamContext{
		value: value,
	}
}

// Value returns the boxed backend state. It is called by backend callbacks
// to recover their state and should not be used by stream consumers.
func (c *StreamContext) Value() interface{} {
	return c.value
}

// ReadCallback reads up to len(data) bytes from the backend into data. It
// returns the number of bytes read, or a negative number for an error. The
// error detail must be recorded in the error slot before returning.
type ReadCallback func(context *StreamContext, data []byte) int64

// SeekCallback seeks to an offset in the backend relative to the provided
// mode. It returns the new absolute position, or a negative number for an
// error.
type SeekCallback func(context *StreamContext, offset int64, mode SeekMode) int64

// WriteCallback writes len(data) bytes to the backend. It returns the number
// of bytes written, or a negative number for an error.
type WriteCallback func(context *StreamContext, data []byte) int64

// FlushCallback flushes the backend. It returns zero on success, or a
// negative number for an error.
type FlushCallback func(context *StreamContext) int64

// Stream adapts a context and four callbacks to a native read/write/seek
// stream. The context and callbacks must remain valid for the lifetime of
// the stream. A stream must be used by a single owner that serializes all
// operations, as the context is mutable state reachable through the
// callbacks and no locking is performed.
type Stream struct {
	// Errors is the slot consulted to recover error details from negative
	// callback results. If nil, DefaultErrors is used. Backends that record
	// details through SetLast use the default slot.
	Errors *ErrorSlot

	context *StreamContext
	reader  ReadCallback
	seeker  SeekCallback
	writer  WriteCallback
	flusher FlushCallback
}

// NewStream creates a stream from a context and callbacks. The stream takes
// ownership of the context until it is released. Callback correctness is not
// validated, incorrect callbacks manifest as I/O errors downstream.
func NewStream(context *StreamContext, reader ReadCallback, seeker SeekCallback, writer WriteCallback, flusher FlushCallback) *Stream {
	return &Stream{
		context: context,
		reader:  reader,
		seeker:  seeker,
		writer:  writer,
		flusher: flusher,
	}
}

// Read implements the io.Reader interface. A zero result for a non-empty
// buffer is reported as io.EOF.
func (s *Stream) Read(buf []byte) (int, error) {
	return s.read(buf, uint64(len(buf)))
}

func (s *Stream) read(buf []byte, length uint64) (int, error) {
	// check length
	if length > math.MaxInt64 {
		return 0, ErrOversizedBuffer.Wrap()
	}

	// invoke callback
	n := s.reader(s.context, buf)
	if n < 0 {
		return 0, s.sentinelError("read failed")
	}

	// handle end of stream
	if n == 0 && len(buf) > 0 {
		return 0, io.EOF
	}

	return int(n), nil
}

// Seek implements the io.Seeker interface. The whence value is translated
// to a seek mode before invoking the callback.
//
// Note: the callback protocol does not reserve negative results for errors
// on seek like it does for read and write. A negative result is returned as
// the new position without an error. Callers integrating new backends should
// not rely on negative positions being surfaced as failures.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	// translate whence
	var mode SeekMode
	switch whence {
	case io.SeekStart:
		mode = SeekModeStart
	case io.SeekCurrent:
		mode = SeekModeCurrent
	case io.SeekEnd:
		mode = SeekModeEnd
	default:
		return 0, xo.F("invalid whence: %d", whence)
	}

	// invoke callback
	pos := s.seeker(s.context, offset, mode)

	return pos, nil
}

// Write implements the io.Writer interface. Partial writes are legal and
// must be handled by the caller.
func (s *Stream) Write(buf []byte) (int, error) {
	return s.write(buf, uint64(len(buf)))
}

func (s *Stream) write(buf []byte, length uint64) (int, error) {
	// check length
	if length > math.MaxInt64 {
		return 0, ErrOversizedBuffer.Wrap()
	}

	// invoke callback
	n := s.writer(s.context, buf)
	if n < 0 {
		return 0, s.sentinelError("write failed")
	}

	return int(n), nil
}

// Flush will flush the underlying backend.
func (s *Stream) Flush() error {
	// invoke callback
	ret := s.flusher(s.context)
	if ret < 0 {
		return s.sentinelError("flush failed")
	}

	return nil
}

// Close implements the io.Closer interface by releasing the stream. After
// closing, the stream must not be used anymore.
func (s *Stream) Close() error {
	return s.release()
}

// ReleaseStream destroys a previously created stream and drops ownership of
// its context. If the boxed backend state implements io.Closer it is closed.
// A stream may only be released once, releasing a nil stream is a no-op.
func ReleaseStream(s *Stream) {
	// handle nil stream
	if s == nil {
		return
	}

	// release stream
	_ = s.release()
}

func (s *Stream) release() error {
	// extract context
	context := s.extractContext()

	// close backend state if possible
	if closer, ok := context.value.(io.Closer); ok {
		err := closer.Close()
		if err != nil {
			return xo.W(err)
		}
	}

	return nil
}

// extractContext removes the owned context from the stream and replaces it
// with an empty placeholder. This allows the true owner of the boxed state
// to reclaim it instead of the generic release path. The stream must not be
// used anymore afterwards.
func (s *Stream) extractContext() *StreamContext {
	// swap context
	context := s.context
	s.context = &StreamContext{}

	return context
}

func (s *Stream) sentinelError(what string) error {
	// take recorded detail
	err := s.slot().Take()
	if err == nil {
		return xo.F("%s", what)
	}

	return xo.WF(err, "%s", what)
}

func (s *Stream) slot() *ErrorSlot {
	// use configured slot
	if s.Errors != nil {
		return s.Errors
	}

	return DefaultErrors
}
