package source

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"net"
	"time"

	"github.com/matzehuels/erdviz/pkg/errors"
)

// Connection retry settings used by [Loader.Ping].
const (
	pingAttempts = 3
	pingDelay    = 500 * time.Millisecond
)

// retryableError marks a failure worth another attempt.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// retry executes fn up to attempts times, doubling delay after each failure.
// Only errors wrapped in retryableError are retried; ctx cancellation stops
// the wait.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !stderrors.As(err, new(*retryableError)) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// transient reports whether a connection error may clear up on its own,
// as when the database container is still starting.
func transient(err error) bool {
	var netErr net.Error
	return stderrors.Is(err, driver.ErrBadConn) || stderrors.As(err, &netErr)
}

// Ping checks the connection, retrying transient network failures.
func (l *Loader) Ping(ctx context.Context) error {
	err := retry(ctx, pingAttempts, pingDelay, func() error {
		err := l.db.PingContext(ctx)
		if err != nil && transient(err) {
			l.logger().Debug("database not reachable, retrying", "error", err)
			return &retryableError{err: err}
		}
		return err
	})
	if err != nil {
		var re *retryableError
		if stderrors.As(err, &re) {
			err = re.err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "connect to database")
	}
	return nil
}
