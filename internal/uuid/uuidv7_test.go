package uuid

import (
	"sort"
	"testing"
	"time"

	googleuuid "github.com/google/uuid"
)

func TestNewProducesValidUUIDv7(t *testing.T) {
	id := New()

	parsed, err := googleuuid.Parse(id)
	if err != nil {
		t.Fatalf("generated ID %q is not a valid UUID: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected version 7, got %d", parsed.Version())
	}
	if parsed.Variant() != googleuuid.RFC4122 {
		t.Errorf("expected RFC 4122 variant, got %v", parsed.Variant())
	}
}

func TestNewIsTimeOrdered(t *testing.T) {
	// IDs minted across distinct milliseconds sort by creation order, which
	// keeps primary key indexes append-mostly.
	ids := make([]string, 3)
	for i := range ids {
		ids[i] = New()
		time.Sleep(2 * time.Millisecond)
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for i := range ids {
		if ids[i] != sorted[i] {
			t.Fatalf("expected lexicographic order %v, got %v", sorted, ids)
		}
	}
}
