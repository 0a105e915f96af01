package media

import (
	"context"
	"errors"
	"io"
)

// Store persists uploaded media and returns a public URL for it.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// DurationProber resolves the playback duration, in seconds, of a local
// media file.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// ErrProberUnavailable indicates the duration prober is not configured.
var ErrProberUnavailable = errors.New("media duration prober unavailable")
