package cstream

import (
	"context"
	"io"

	"github.com/256dpi/xo"
)

// DownloadTo will rewind the stream and copy its full content to the
// provided writer.
func DownloadTo(ctx context.Context, stream *Stream, writer io.Writer) (int64, error) {
	// ensure context
	if ctx == nil {
		ctx = context.Background()
	}

	// trace
	_, span := xo.Trace(ctx, "cstream/DownloadTo")
	defer span.End()

	// rewind stream
	_, err := stream.Seek(0, io.SeekStart)
	if err != nil {
		return 0, err
	}

	// copy content
	n, err := io.Copy(writer, stream)
	if err != nil {
		return 0, xo.W(err)
	}

	return n, nil
}

// UploadFrom will copy all data from the provided reader to the stream and
// flush it.
func UploadFrom(ctx context.Context, stream *Stream, reader io.Reader) (int64, error) {
	// ensure context
	if ctx == nil {
		ctx = context.Background()
	}

	// trace
	_, span := xo.Trace(ctx, "cstream/UploadFrom")
	defer span.End()

	// copy content
	n, err := io.Copy(stream, reader)
	if err != nil {
		return 0, xo.W(err)
	}

	// flush stream
	err = stream.Flush()
	if err != nil {
		return 0, err
	}

	return n, nil
}

// Length returns the total length of the stream while preserving the
// current position.
func Length(stream *Stream) (int64, error) {
	// capture position
	pos, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}

	// seek to end
	length, err := stream.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}

	// restore position
	_, err = stream.Seek(pos, io.SeekStart)
	if err != nil {
		return 0, err
	}

	return length, nil
}
