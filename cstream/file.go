package cstream

import (
	"io"
	"os"

	"github.com/256dpi/xo"
)

// FileBackend adapts an open file to the callback quad. Operating system
// errors are recorded in the default error slot before the negative sentinel
// is returned.
type FileBackend struct {
	file *os.File
}

// NewFileBackend creates a backend using the provided file. The backend
// takes ownership of the file and closes it when the owning stream is
// released.
func NewFileBackend(file *os.File) *FileBackend {
	return &FileBackend{
		file: file,
	}
}

// OpenFile opens or creates the named file for reading and writing and
// returns a stream backed by it.
func OpenFile(path string) (*Stream, error) {
	// open file
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, xo.W(err)
	}

	return NewFileBackend(file).Stream(), nil
}

// Stream will box the backend as a stream context and return a stream using
// the file callbacks.
func (b *FileBackend) Stream() *Stream {
	return NewStream(NewStreamContext(b), fileRead, fileSeek, fileWrite, fileFlush)
}

// Close implements the io.Closer interface and closes the underlying file.
func (b *FileBackend) Close() error {
	return b.file.Close()
}

func fileRead(context *StreamContext, data []byte) int64 {
	// get backend
	backend := context.Value().(*FileBackend)

	// read from file
	n, err := backend.file.Read(data)
	if err == io.EOF {
		return int64(n)
	} else if err != nil {
		SetLast(xo.W(err))
		return -1
	}

	return int64(n)
}

func fileSeek(context *StreamContext, offset int64, mode SeekMode) int64 {
	// get backend
	backend := context.Value().(*FileBackend)

	// seek file (modes match the io package whence values)
	pos, err := backend.file.Seek(offset, int(mode))
	if err != nil {
		SetLast(xo.W(err))
		return -1
	}

	return pos
}

func fileWrite(context *StreamContext, data []byte) int64 {
	// get backend
	backend := context.Value().(*FileBackend)

	// write to file
	n, err := backend.file.Write(data)
	if err != nil {
		SetLast(xo.W(err))
		return -1
	}

	return int64(n)
}

func fileFlush(context *StreamContext) int64 {
	// get backend
	backend := context.Value().(*FileBackend)

	// sync file
	err := backend.file.Sync()
	if err != nil {
		SetLast(xo.W(err))
		return -1
	}

	return 0
}
