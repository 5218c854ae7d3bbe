package styles

import "testing"

func TestNoColorPassThrough(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	if got := Status("Accepted"); got != "Accepted" {
		t.Fatalf("Status = %q", got)
	}
	if got := SuccessMsg("Saved"); got != "+ Saved" {
		t.Fatalf("SuccessMsg = %q", got)
	}
	if got := WarningMsg("Token expires soon"); got != "! Token expires soon" {
		t.Fatalf("WarningMsg = %q", got)
	}
	if got := Banner("Duplicate entry"); got != "! Duplicate entry" {
		t.Fatalf("Banner = %q", got)
	}
}

func TestIndent(t *testing.T) {
	if got := Indent("a\n\nb", 2); got != "  a\n\n  b" {
		t.Fatalf("Indent = %q", got)
	}
}
