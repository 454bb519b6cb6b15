package cstream

import (
	"context"
	"io"

	"github.com/256dpi/lungo"
	"github.com/256dpi/xo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GridFSBackend is a read-only backend over a file stored in a GridFS
// bucket. Download streams seek natively, writes are rejected through the
// sentinel protocol as GridFS files are immutable once written. New content
// is stored using UploadGridFS.
type GridFSBackend struct {
	stream *lungo.DownloadStream
}

// UploadGridFS stores the content read from the provided reader as a new
// GridFS file and returns its id.
func UploadGridFS(ctx context.Context, bucket *lungo.Bucket, name string, reader io.Reader) (primitive.ObjectID, error) {
	// create id
	id := primitive.NewObjectID()

	// open upload stream
	stream, err := bucket.OpenUploadStreamWithID(ctx, id, name)
	if err != nil {
		return primitive.ObjectID{}, xo.W(err)
	}

	// copy content
	_, err = io.Copy(stream, reader)
	if err != nil {
		return primitive.ObjectID{}, xo.W(err)
	}

	// close stream
	err = stream.Close()
	if err != nil {
		return primitive.ObjectID{}, xo.W(err)
	}

	return id, nil
}

// OpenGridFS opens the specified GridFS file and returns a read-only stream
// backed by it.
func OpenGridFS(ctx context.Context, bucket *lungo.Bucket, id primitive.ObjectID) (*Stream, error) {
	// open download stream
	stream, err := bucket.OpenDownloadStream(ctx, id)
	if err == lungo.ErrFileNotFound {
		return nil, ErrNotFound.Wrap()
	} else if err != nil {
		return nil, xo.W(err)
	}

	return NewGridFSBackend(stream).Stream(), nil
}

// NewGridFSBackend creates a backend using the provided download stream.
// The backend takes ownership of the stream and closes it when the owning
// stream is released.
func NewGridFSBackend(stream *lungo.DownloadStream) *GridFSBackend {
	return &GridFSBackend{
		stream: stream,
	}
}

// Stream will box the backend as a stream context and return a stream using
// the GridFS callbacks.
func (b *GridFSBackend) Stream() *Stream {
	return NewStream(NewStreamContext(b), gridFSRead, gridFSSeek, gridFSWrite, gridFSFlush)
}

// Close implements the io.Closer interface and closes the download stream.
func (b *GridFSBackend) Close() error {
	return b.stream.Close()
}

func gridFSRead(context *StreamContext, data []byte) int64 {
	// get backend
	backend := context.Value().(*GridFSBackend)

	// read from stream
	n, err := backend.stream.Read(data)
	if err != nil && err != io.EOF {
		SetLast(xo.W(err))
		return -1
	}

	return int64(n)
}

func gridFSSeek(context *StreamContext, offset int64, mode SeekMode) int64 {
	// get backend
	backend := context.Value().(*GridFSBackend)

	// seek stream (modes match the io package whence values)
	pos, err := backend.stream.Seek(offset, int(mode))
	if err != nil {
		SetLast(xo.W(err))
		return -1
	}

	return pos
}

func gridFSWrite(*StreamContext, []byte) int64 {
	SetLast(ErrReadOnly.Wrap())
	return -1
}

func gridFSFlush(*StreamContext) int64 {
	return 0
}
