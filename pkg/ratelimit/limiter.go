// Package ratelimit throttles file reads with a token bucket shared by every
// reader of a comparison run.
package ratelimit

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// minBurst keeps chunked reads smooth at very low rates
const minBurst = 64 * 1024

// Limiter bounds the combined read rate in bytes per second
type Limiter struct {
	bytesPerSecond int64
	bucket         *rate.Limiter
}

// NewLimiter creates a limiter for bytesPerSecond.
// A non-positive rate returns nil, which disables limiting.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	burst := max(bytesPerSecond, minBurst)

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		bucket:         rate.NewLimiter(rate.Limit(bytesPerSecond), int(burst)),
	}
}

// Rate returns the configured bytes per second
func (l *Limiter) Rate() int64 {
	return l.bytesPerSecond
}

// Burst returns the largest single read the limiter grants at once
func (l *Limiter) Burst() int {
	return l.bucket.Burst()
}

// Wait blocks until n bytes may be read or ctx is done.
// n is capped at the burst size.
func (l *Limiter) Wait(ctx context.Context, n int) error {
	return l.bucket.WaitN(ctx, min(n, l.bucket.Burst()))
}

// ReadCloser throttles reads of an underlying io.ReadCloser
type ReadCloser struct {
	rc      io.ReadCloser
	limiter *Limiter
	ctx     context.Context
}

// NewReadCloser wraps rc. With a nil limiter rc is returned unchanged.
func NewReadCloser(ctx context.Context, rc io.ReadCloser, limiter *Limiter) io.ReadCloser {
	if limiter == nil {
		return rc
	}
	return &ReadCloser{rc: rc, limiter: limiter, ctx: ctx}
}

// Read waits for tokens, then reads at most one burst
func (r *ReadCloser) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return r.rc.Read(p)
	}
	toRead := min(len(p), r.limiter.Burst())

	if err := r.limiter.Wait(r.ctx, toRead); err != nil {
		return 0, err
	}
	return r.rc.Read(p[:toRead])
}

// Close closes the underlying reader
func (r *ReadCloser) Close() error {
	return r.rc.Close()
}
