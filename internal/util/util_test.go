package util

import (
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestNewContactID(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)
	id := NewContactID()
	if !strings.HasPrefix(id, "ct_") {
		t.Fatalf("expected ct_ prefix, got %q", id)
	}
	parsed, err := ulid.Parse(strings.TrimPrefix(id, "ct_"))
	if err != nil {
		t.Fatalf("parse ulid: %v", err)
	}
	if ulid.Time(parsed.Time()).Before(before) {
		t.Fatalf("ulid timestamp too old: %v", ulid.Time(parsed.Time()))
	}
	if NewContactID() == id {
		t.Fatalf("expected unique ids")
	}
}

func TestNowUTC(t *testing.T) {
	if NowUTC().Location() != time.UTC {
		t.Fatalf("expected UTC location")
	}
}
