package ratelimit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// drain empties the bucket so the next request has to wait
func drain(l *Limiter) {
	l.bucket.AllowN(time.Now(), l.bucket.Burst())
}

func TestNewLimiter(t *testing.T) {
	t.Run("ValidBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		if limiter == nil {
			t.Fatal("NewLimiter() returned nil for valid input")
		}
		if limiter.Rate() != 1024*1024 {
			t.Errorf("Rate() = %d, want %d", limiter.Rate(), 1024*1024)
		}
		if limiter.Burst() != 1024*1024 {
			t.Errorf("Burst() = %d, want %d", limiter.Burst(), 1024*1024)
		}
	})

	t.Run("NonPositiveDisables", func(t *testing.T) {
		if NewLimiter(0) != nil || NewLimiter(-100) != nil {
			t.Error("NewLimiter() should return nil for non-positive rates")
		}
	})

	t.Run("SmallRateKeepsMinimumBurst", func(t *testing.T) {
		limiter := NewLimiter(1000)
		if limiter.Burst() != minBurst {
			t.Errorf("Burst() = %d, want %d", limiter.Burst(), minBurst)
		}
	})
}

func TestReadCloser(t *testing.T) {
	t.Run("NilLimiterReturnsOriginal", func(t *testing.T) {
		base := io.NopCloser(strings.NewReader("test content"))
		if NewReadCloser(context.Background(), base, nil) != base {
			t.Error("NewReadCloser() should return the original reader when limiter is nil")
		}
	})

	t.Run("ReadsEverything", func(t *testing.T) {
		content := []byte("0123456789abcdef")
		rc := NewReadCloser(context.Background(), io.NopCloser(bytes.NewReader(content)), NewLimiter(1024*1024))

		got, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("ReadAll() = %q, want %q", got, content)
		}
		if err := rc.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	t.Run("ReadCappedAtBurst", func(t *testing.T) {
		limiter := NewLimiter(1000)
		rc := NewReadCloser(context.Background(), io.NopCloser(bytes.NewReader(make([]byte, 2*minBurst))), limiter)

		n, err := rc.Read(make([]byte, 2*minBurst))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if n != minBurst {
			t.Errorf("Read() = %d bytes, want %d", n, minBurst)
		}
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		limiter := NewLimiter(1000)
		drain(limiter)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		rc := NewReadCloser(ctx, io.NopCloser(bytes.NewReader(make([]byte, 4096))), limiter)
		_, err := rc.Read(make([]byte, 4096))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Read() error = %v, want context canceled", err)
		}
	})

	t.Run("DeadlineTooShort", func(t *testing.T) {
		limiter := NewLimiter(1000)
		drain(limiter)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		rc := NewReadCloser(ctx, io.NopCloser(bytes.NewReader(make([]byte, 4096))), limiter)
		if _, err := rc.Read(make([]byte, 4096)); err == nil {
			t.Error("Read() should fail when the wait exceeds the deadline")
		}
	})
}

func TestLimiter_Wait(t *testing.T) {
	t.Run("ThrottlesOnceEmpty", func(t *testing.T) {
		limiter := NewLimiter(100 * 1024)
		drain(limiter)

		start := time.Now()
		if err := limiter.Wait(context.Background(), 5*1024); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
		if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
			t.Errorf("Wait() returned after %v, expected about 50ms", elapsed)
		}
	})

	t.Run("CapsRequestAtBurst", func(t *testing.T) {
		limiter := NewLimiter(1000)
		if err := limiter.Wait(context.Background(), 10*minBurst); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	})

	t.Run("SharedAcrossReaders", func(t *testing.T) {
		limiter := NewLimiter(100 * 1024)
		if err := limiter.Wait(context.Background(), 100*1024); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}

		start := time.Now()
		rc := NewReadCloser(context.Background(), io.NopCloser(bytes.NewReader(make([]byte, 5*1024))), limiter)
		if _, err := io.ReadAll(rc); err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
			t.Errorf("second reader finished after %v, expected to wait on the shared bucket", elapsed)
		}
	})
}
