package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataMapping(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeUnavailable, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("%s -> %d, want %d", tc.code, got, tc.status)
		}
	}
	if got := MetadataFor(Code("BOGUS")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown code -> %d, want 500", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeUnavailable, cause, "session lookup")

	typed := As(fmt.Errorf("handler: %w", err))
	if typed == nil {
		t.Fatal("expected typed error through wrapping")
	}
	if typed.Code() != CodeUnavailable {
		t.Fatalf("code = %s", typed.Code())
	}
	if typed.Unwrap() != cause {
		t.Fatal("cause lost")
	}
}

func TestDumpChain(t *testing.T) {
	err := Wrap(CodeNotFound, fmt.Errorf("record not found"), "player lookup")
	d := Dump(err)
	if d.Code != CodeNotFound {
		t.Fatalf("dump code = %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("chain length = %d", len(d.Chain))
	}
}

func TestAsNilSafe(t *testing.T) {
	if As(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
	if As(fmt.Errorf("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}
