package source

import (
	"context"
	stderrors "errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/matzehuels/erdviz/pkg/errors"
)

func TestRetry(t *testing.T) {
	permanent := stderrors.New("permanent")
	flaky := &retryableError{err: stderrors.New("flaky")}

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, nil, 1, false},
		{"recovers", 2, flaky, 3, false},
		{"exhausted", 5, flaky, 3, true},
		{"permanent stops at once", 5, permanent, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retry(context.Background(), 3, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retry(ctx, 3, time.Hour, func() error { return &retryableError{err: stderrors.New("down")} })
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectPing().WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: stderrors.New("connection refused")})
	mock.ExpectPing()

	l, err := New(db, DriverPostgres)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPingPermanentFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectPing().WillReturnError(stderrors.New("password authentication failed"))

	l, _ := New(db, DriverPostgres)
	err = l.Ping(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Ping() = %v, want INVALID_INPUT", err)
	}
}
