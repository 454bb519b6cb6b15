package cstream

import (
	"context"
	"io"
	"net/http"

	"github.com/256dpi/xo"
	"github.com/minio/minio-go/v7"
)

// MinioBackend is a read-only backend over an object in a S3 compatible
// bucket. Objects are natively seekable, writes are rejected through the
// sentinel protocol.
type MinioBackend struct {
	object *minio.Object
}

// OpenMinio opens the specified object and returns a read-only stream
// backed by it.
func OpenMinio(ctx context.Context, client *minio.Client, bucket, name string) (*Stream, error) {
	// ensure context
	if ctx == nil {
		ctx = context.Background()
	}

	// get object
	object, err := client.GetObject(ctx, bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, xo.W(err)
	}

	// check object
	_, err = object.Stat()
	if isMinioNotFoundErr(err) {
		return nil, ErrNotFound.Wrap()
	} else if err != nil {
		return nil, xo.W(err)
	}

	return NewMinioBackend(object).Stream(), nil
}

// NewMinioBackend creates a backend using the provided object. The backend
// takes ownership of the object and closes it when the owning stream is
// released.
func NewMinioBackend(object *minio.Object) *MinioBackend {
	return &MinioBackend{
		object: object,
	}
}

// Stream will box the backend as a stream context and return a stream using
// the object callbacks.
func (b *MinioBackend) Stream() *Stream {
	return NewStream(NewStreamContext(b), minioRead, minioSeek, minioWrite, minioFlush)
}

// Close implements the io.Closer interface and closes the underlying
// object.
func (b *MinioBackend) Close() error {
	return b.object.Close()
}

func minioRead(context *StreamContext, data []byte) int64 {
	// get backend
	backend := context.Value().(*MinioBackend)

	// read from object
	n, err := backend.object.Read(data)
	if err != nil && err != io.EOF {
		SetLast(xo.W(err))
		return -1
	}

	return int64(n)
}

func minioSeek(context *StreamContext, offset int64, mode SeekMode) int64 {
	// get backend
	backend := context.Value().(*MinioBackend)

	// seek object (modes match the io package whence values)
	pos, err := backend.object.Seek(offset, int(mode))
	if err != nil {
		SetLast(xo.W(err))
		return -1
	}

	return pos
}

func minioWrite(*StreamContext, []byte) int64 {
	SetLast(ErrReadOnly.Wrap())
	return -1
}

func minioFlush(*StreamContext) int64 {
	return 0
}

func isMinioNotFoundErr(err error) bool {
	return minio.ToErrorResponse(err).StatusCode == http.StatusNotFound
}
