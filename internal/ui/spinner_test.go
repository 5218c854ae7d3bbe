package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/haulops/haulctl/internal/ui/styles"
	"go.uber.org/goleak"
)

func TestSpinner_StaticOutput(t *testing.T) {
	styles.SetNoColor(true)
	defer styles.SetNoColor(false)

	var buf bytes.Buffer
	s := NewSpinnerTo(&buf, "Loading customers", false)
	s.Start()
	s.Success("Loaded 12 customers")

	if got := buf.String(); got != "Loading customers...\n+ Loaded 12 customers\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestSpinner_AnimatedStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer
	s := NewSpinnerTo(&buf, "Loading bids", true)
	s.Start()
	s.Stop()
	s.Stop()

	if !strings.HasSuffix(buf.String(), "\r\033[K") {
		t.Fatalf("line not cleared: %q", buf.String())
	}
}

func TestProgress_StaticLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTo(&buf, "Mirroring", 2, false)
	p.Increment()
	p.Increment()
	p.Done()

	if got := buf.String(); got != "Mirroring: 1 of 2\nMirroring: 2 of 2\n" {
		t.Fatalf("output = %q", got)
	}
}
