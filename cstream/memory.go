package cstream

import (
	"github.com/256dpi/xo"
)

// MemoryBackend is a reference backend for testing purposes that stores the
// stream content in a growable in-memory buffer with a position cursor. It
// implements the full callback quad and serves as a template for real
// external backends.
type MemoryBackend struct {
	buffer []byte
	cursor int64
}

// NewMemoryBackend creates a backend initialized with the provided bytes.
func NewMemoryBackend(data []byte) *MemoryBackend {
	return &MemoryBackend{
		buffer: data,
	}
}

// FromBytes creates a stream backed by a new memory backend holding the
// provided bytes. Ownership of the backend is transferred to the stream and
// may be recovered using MemoryFromStream.
func FromBytes(data []byte) *Stream {
	return NewMemoryBackend(data).Stream()
}

// Stream will box the backend as a stream context and return a stream using
// the memory callbacks. The backend must not be used directly while the
// stream owns it.
func (b *MemoryBackend) Stream() *Stream {
	return NewStream(NewStreamContext(b), memoryRead, memorySeek, memoryWrite, memoryFlush)
}

// MemoryFromStream recovers the memory backend previously transferred to the
// provided stream. The streams context is replaced with an empty placeholder
// and the stream must not be used anymore. It returns nil if the stream is
// not backed by a memory backend.
func MemoryFromStream(s *Stream) *MemoryBackend {
	// extract context
	context := s.extractContext()

	// unbox backend
	backend, _ := context.Value().(*MemoryBackend)

	return backend
}

// DropStream recovers the memory backend from the provided stream and
// discards it. The stream must not be used anymore afterwards.
func DropStream(s *Stream) {
	MemoryFromStream(s)
}

// Bytes returns the current buffer contents.
func (b *MemoryBackend) Bytes() []byte {
	return b.buffer
}

// Position returns the current cursor position.
func (b *MemoryBackend) Position() int64 {
	return b.cursor
}

func memoryRead(context *StreamContext, data []byte) int64 {
	// get backend
	backend := context.Value().(*MemoryBackend)

	// handle end of buffer
	if backend.cursor >= int64(len(backend.buffer)) {
		return 0
	}

	// copy bytes and advance cursor
	n := copy(data, backend.buffer[backend.cursor:])
	backend.cursor += int64(n)

	return int64(n)
}

func memorySeek(context *StreamContext, offset int64, mode SeekMode) int64 {
	// get backend
	backend := context.Value().(*MemoryBackend)

	// compute target position
	var target int64
	switch mode {
	case SeekModeStart:
		// no bounds check, seeking past the end is allowed
		target = offset
	case SeekModeCurrent:
		target = backend.cursor + offset
	case SeekModeEnd:
		target = int64(len(backend.buffer)) + offset
	default:
		SetLast(xo.F("invalid seek mode: %d", mode))
		return -1
	}

	// check target
	if target < 0 {
		SetLast(xo.F("negative position: %d", target))
		return -1
	}

	// set cursor
	backend.cursor = target

	return target
}

func memoryWrite(context *StreamContext, data []byte) int64 {
	// get backend
	backend := context.Value().(*MemoryBackend)

	// grow buffer as needed, zero-filling any gap beyond the end
	end := backend.cursor + int64(len(data))
	if end > int64(len(backend.buffer)) {
		grown := make([]byte, end)
		copy(grown, backend.buffer)
		backend.buffer = grown
	}

	// write bytes and advance cursor
	copy(backend.buffer[backend.cursor:end], data)
	backend.cursor = end

	return int64(len(data))
}

func memoryFlush(*StreamContext) int64 {
	return 0
}
