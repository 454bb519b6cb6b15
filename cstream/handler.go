package cstream

import (
	"net/http"
	"path"
	"time"

	"github.com/256dpi/serve"
)

// ServeStream serves the content of the provided stream over HTTP with
// support for range requests. The content type is derived from the name
// extension and otherwise sniffed from the content. The stream position is
// changed by serving and the caller remains responsible for releasing the
// stream.
func ServeStream(w http.ResponseWriter, r *http.Request, name string, modTime time.Time, stream *Stream) {
	// set content type
	contentType := serve.MimeTypeByExtension(path.Ext(name), false)
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	// serve content
	http.ServeContent(w, r, "", modTime, stream)
}
