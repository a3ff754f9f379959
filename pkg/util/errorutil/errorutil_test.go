package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("resolve flag: %w", NewAlreadyResolved("Flag is already resolved", nil))
	de := ToDomainError(wrapped)
	if de.Code != CodeAlreadyResolved || de.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected mapping: %+v", de)
	}
	if !IsCode(wrapped, CodeAlreadyResolved) {
		t.Fatal("expected IsCode to see through wrapping")
	}
}

func TestToDomainErrorHidesInternalCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")
	de := ToDomainError(cause)
	if de.HTTPStatus != http.StatusInternalServerError || de.Code != CodeInternal {
		t.Fatalf("unexpected mapping: %+v", de)
	}
	if de.Message != "internal server error" {
		t.Fatalf("message leaks internals: %q", de.Message)
	}
	if !errors.Is(de, cause) {
		t.Fatal("cause should remain reachable for server-side logging")
	}
}

func TestToDomainErrorMapsFiberErrors(t *testing.T) {
	cases := []struct {
		in   *fiber.Error
		code string
	}{
		{fiber.ErrNotFound, CodeNotFound},
		{fiber.ErrMethodNotAllowed, CodeValidation},
		{fiber.ErrUnauthorized, CodeUnauthorized},
		{fiber.ErrTooManyRequests, CodeRateLimited},
		{fiber.ErrServiceUnavailable, CodeInternal},
	}
	for _, tc := range cases {
		de := ToDomainError(tc.in)
		if de.Code != tc.code || de.HTTPStatus != tc.in.Code {
			t.Errorf("%d: got %s/%d, want %s/%d", tc.in.Code, de.Code, de.HTTPStatus, tc.code, tc.in.Code)
		}
	}
}

func TestNewNotFoundMessage(t *testing.T) {
	err := NewNotFound("Member", map[string]any{"member_id": 7})
	if err.Error() != "Member not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if MapError(nil) != nil {
		t.Fatal("MapError(nil) should be nil")
	}
}
