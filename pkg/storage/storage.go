package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by Exists/Upload implementations when the backend
// reports the object is missing.
var ErrNotFound = errors.New("storage: object not found")

// Client is the artifact store: mod zips live under an object path of the
// form {modID}/{modID}-latest.zip. Download links are time-limited and
// single-purpose; nothing is ever served without going through
// SignedDownloadURL.
type Client interface {
	// Upload stores the object, replacing any previous version at the path.
	Upload(ctx context.Context, r io.Reader, objectPath string) error
	// Exists reports whether an object is present at the path.
	Exists(ctx context.Context, objectPath string) (bool, error)
	// SignedDownloadURL returns a URL that is valid for expiresIn and, when
	// forceDownload is set, carries an attachment disposition.
	SignedDownloadURL(ctx context.Context, objectPath string, expiresIn time.Duration, forceDownload bool) (string, error)
}
