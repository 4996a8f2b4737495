package health

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoFlush is reported by FlushAgeCheck before the first flush.
var ErrNoFlush = errors.New("no histogram flush yet")

// FlushAgeCheck fails until the first flush and whenever the last flush is
// older than maxAge. A non-positive maxAge only requires one flush to have
// happened.
func FlushAgeCheck(lastFlush func() time.Time, maxAge time.Duration) CheckFunc {
	return flushAgeCheck(lastFlush, maxAge, time.Now)
}

func flushAgeCheck(lastFlush func() time.Time, maxAge time.Duration, now func() time.Time) CheckFunc {
	return func(context.Context) error {
		last := lastFlush()
		if last.IsZero() {
			return ErrNoFlush
		}
		if maxAge <= 0 {
			return nil
		}
		if age := now().Sub(last); age > maxAge {
			return fmt.Errorf("last histogram flush %s ago exceeds %s", age.Truncate(time.Millisecond), maxAge)
		}
		return nil
	}
}

// ConfigReloadCheck fails while the most recent configuration reload
// failed.
func ConfigReloadCheck(lastErr func() error) CheckFunc {
	return func(context.Context) error {
		if err := lastErr(); err != nil {
			return fmt.Errorf("config reload failed: %w", err)
		}
		return nil
	}
}
