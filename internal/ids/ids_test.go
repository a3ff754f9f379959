package ids

import (
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestNewIsSortableAndUnique(t *testing.T) {
	prev := New()
	for i := 0; i < 1000; i++ {
		next := New()
		if next <= prev {
			t.Fatalf("expected monotonic ids, %s then %s", prev, next)
		}
		if _, err := ulid.ParseStrict(next); err != nil {
			t.Fatalf("invalid ulid %s: %v", next, err)
		}
		prev = next
	}
}
