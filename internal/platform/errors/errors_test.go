package errors

import (
	"fmt"
	"testing"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/testutil"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		baseErr := New("base error")
		wrapped := Wrap(baseErr, "additional context")

		testutil.AssertNotNil(t, wrapped, "wrapped error should not be nil")
		testutil.AssertTrue(t, Is(wrapped, baseErr), "should unwrap to base error")
		testutil.AssertEqual(t, wrapped.Error(), "additional context: base error", "message should include context")
	})

	t.Run("returns nil when wrapping nil", func(t *testing.T) {
		testutil.AssertTrue(t, Wrap(nil, "context") == nil, "wrapping nil should return nil")
	})

	t.Run("multiple wraps preserve chain", func(t *testing.T) {
		baseErr := New("base")
		wrapped := Wrap(Wrap(baseErr, "layer 1"), "layer 2")

		testutil.AssertTrue(t, Is(wrapped, baseErr), "should unwrap to base error")
		testutil.AssertEqual(t, wrapped.Error(), "layer 2: layer 1: base", "should show full chain")
	})
}

func TestWrapf(t *testing.T) {
	baseErr := New("base error")
	wrapped := Wrapf(baseErr, "failed for source=%s", "game8")

	testutil.AssertTrue(t, Is(wrapped, baseErr), "should unwrap to base error")
	testutil.AssertEqual(t, wrapped.Error(), "failed for source=game8: base error", "formatted context")
	testutil.AssertTrue(t, Wrapf(nil, "context %s", "x") == nil, "wrapping nil should return nil")
}

func TestIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"matches sentinel", ErrTimeout, ErrTimeout, true},
		{"matches wrapped sentinel", Wrap(ErrTimeout, "context"), ErrTimeout, true},
		{"does not match different error", ErrTimeout, ErrNotFound, false},
		{"nil does not match", nil, ErrTimeout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, Is(tt.err, tt.target), tt.want, "Is result")
		})
	}
}

func TestAs(t *testing.T) {
	wrapped := Wrap(ErrTimeout, "outer")

	var target *wrappedError
	testutil.AssertTrue(t, As(wrapped, &target), "should find wrappedError type")
	testutil.AssertEqual(t, target.msg, "outer", "should match the outer wrapper")

	var other *wrappedError
	testutil.AssertFalse(t, As(New("plain"), &other), "plain error has no wrapper in chain")
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout is retryable", Wrap(ErrTimeout, "fetch"), true},
		{"connection failure is retryable", ErrConnectionFailed, true},
		{"service unavailable is retryable", Wrap(ErrServiceUnavailable, "fetch"), true},
		{"not found is permanent", ErrNotFound, false},
		{"invalid response is permanent", ErrInvalidResponse, false},
		{"rate limit is not retried blindly", ErrRateLimit, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, IsRetryable(tt.err), tt.want, "IsRetryable result")
		})
	}
}

func TestIsTimeout(t *testing.T) {
	testutil.AssertTrue(t, IsTimeout(Wrap(ErrTimeout, "context")), "wrapped timeout")
	testutil.AssertFalse(t, IsTimeout(ErrNotFound), "different error")
	testutil.AssertFalse(t, IsTimeout(nil), "nil error")
}

func TestIsNotFound(t *testing.T) {
	testutil.AssertTrue(t, IsNotFound(Wrap(ErrNotFound, "context")), "wrapped not found")
	testutil.AssertFalse(t, IsNotFound(ErrTimeout), "different error")
}

func TestJoin(t *testing.T) {
	err1 := New("error 1")
	err2 := New("error 2")

	joined := Join(err1, nil, err2)
	testutil.AssertNotNil(t, joined, "joined error should not be nil")
	testutil.AssertTrue(t, Is(joined, err1), "should find first error")
	testutil.AssertTrue(t, Is(joined, err2), "should find second error")

	testutil.AssertTrue(t, Join(nil, nil) == nil, "all-nil join should return nil")
}

func TestErrorf(t *testing.T) {
	err := Errorf("fetch failed after %d retries", 3)
	testutil.AssertEqual(t, err.Error(), "fetch failed after 3 retries", "formatted message")
}

func ExampleWrap() {
	baseErr := New("connection reset")
	wrapped := Wrap(baseErr, "fetch tier list")
	fmt.Println(wrapped.Error())
	// Output: fetch tier list: connection reset
}
