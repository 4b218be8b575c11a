package storage

import (
	"context"
	"io"

	"github.com/sdejongh/dirdiff/pkg/ratelimit"
)

// Throttled limits the read rate of a backend.
// Listing and metadata calls are not throttled; only file content is.
type Throttled struct {
	Backend
	limiter *ratelimit.Limiter
}

// NewThrottled wraps b. A nil limiter returns b unchanged.
func NewThrottled(b Backend, limiter *ratelimit.Limiter) Backend {
	if limiter == nil {
		return b
	}
	return &Throttled{Backend: b, limiter: limiter}
}

// Read opens a file whose reads draw from the shared limiter
func (t *Throttled) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := t.Backend.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return ratelimit.NewReadCloser(ctx, rc, t.limiter), nil
}
