package cstream

import (
	"sync"

	"github.com/256dpi/xo"
)

// ErrOversizedBuffer is returned if a requested buffer length exceeds the
// maximum representable signed size. The error is raised locally before any
// callback is invoked.
var ErrOversizedBuffer = xo.BF("oversized buffer")

// ErrReadOnly is recorded by read-only backends when their write callback
// is invoked.
var ErrReadOnly = xo.BF("read only stream")

// ErrNotFound is returned if a backend cannot locate the requested content.
var ErrNotFound = xo.BF("not found")

// ErrorSlot is a last-error side channel. A backend records the error detail
// immediately before returning a negative sentinel and the stream takes the
// detail immediately after observing the sentinel. The slot relies on the
// single-owner call and return adjacency of stream operations, interleaved
// use from multiple owners corrupts the channel.
type ErrorSlot struct {
	mutex sync.Mutex
	err   error
}

// Set will record the provided error in the slot, replacing any previously
// recorded error.
func (s *ErrorSlot) Set(err error) {
	// acquire mutex
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// set error
	s.err = err
}

// Take will return and clear the recorded error.
func (s *ErrorSlot) Take() error {
	// acquire mutex
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// take error
	err := s.err
	s.err = nil

	return err
}

// DefaultErrors is the process-wide error slot used by backends that have no
// access to a stream specific slot.
var DefaultErrors = &ErrorSlot{}

// SetLast records the provided error in the default slot. It is called by
// backend callbacks before returning a negative sentinel.
func SetLast(err error) {
	DefaultErrors.Set(err)
}
