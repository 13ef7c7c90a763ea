// Package upload is the boundary to the external object/image host. The
// rest of the system stores only the returned URL string, never bytes.
package upload

import (
	"context"
	"io"
)

// Result is what the host hands back for a stored object.
type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Uploader stores a file and returns its public location.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, contentType string) (*Result, error)
}
