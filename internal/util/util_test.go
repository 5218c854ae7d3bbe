package util

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSuggest(t *testing.T) {
	known := []string{"customers", "bids", "fleet", "containers"}

	if got := Suggest("custmers", known); got != "customers" {
		t.Fatalf("Suggest(custmers) = %q, want customers", got)
	}
	if got := Suggest("FLEET", known); got != "fleet" {
		t.Fatalf("Suggest(FLEET) = %q, want fleet", got)
	}
	if got := Suggest("invoices", known); got != "" {
		t.Fatalf("Suggest(invoices) = %q, want no suggestion", got)
	}
}

func TestUnknownResourceError(t *testing.T) {
	err := UnknownResourceError("bidz", []string{"bids", "fleet"})
	if !errors.Is(err, ErrUnknownResource) {
		t.Fatal("expected error to wrap ErrUnknownResource")
	}
	if !strings.Contains(err.Format(), "Did you mean 'bids'?") {
		t.Fatalf("missing suggestion in:\n%s", err.Format())
	}
}

func TestHaulErrorFormat(t *testing.T) {
	err := NewError("Cannot reach the backend").
		WithContext("https://api.example.com").
		WithCauses("down").
		WithSuggestion("haulctl config api.base_url")

	out := err.Format()
	for _, want := range []string{"Error: Cannot reach the backend", "https://api.example.com", "• down", "$ haulctl config api.base_url"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 3, 9, 15, 4, 5, 0, time.UTC)
	if got := ExportFilename("Yard Drops", now); got != "Yard_Drops_2026-03-09.csv" {
		t.Fatalf("ExportFilename = %q", got)
	}
}

func TestRequestIDsAreOrdered(t *testing.T) {
	a := NewRequestID()
	b := NewRequestID()
	if a >= b {
		t.Fatalf("request ids not monotonic: %s >= %s", a, b)
	}
	if _, err := RequestTime(a); err != nil {
		t.Fatalf("RequestTime: %v", err)
	}
}

func TestToValidUTF8(t *testing.T) {
	latin1 := string([]byte{'M', 0xfc, 'l', 'l', 'e', 'r'})
	if got := ToValidUTF8(latin1); got != "Müller" {
		t.Fatalf("ToValidUTF8 = %q, want Müller", got)
	}
}

func TestRelativeTime(t *testing.T) {
	if got := RelativeTime(time.Now().Add(-2 * time.Hour)); got != "2 hours ago" {
		t.Fatalf("RelativeTime past = %q", got)
	}
	if got := RelativeTime(time.Now().Add(3*time.Hour + time.Minute)); got != "in 3 hours" {
		t.Fatalf("RelativeTime future = %q", got)
	}
}
