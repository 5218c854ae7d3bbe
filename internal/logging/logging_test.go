package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_LevelSelection(t *testing.T) {
	tests := []struct {
		opts      Options
		debugOn   bool
		infoOn    bool
		wantError bool
	}{
		{Options{}, false, false, false},
		{Options{Level: "info"}, false, true, false},
		{Options{Level: "error", Verbose: true}, true, true, false},
		{Options{Level: "loud"}, false, false, true},
	}
	for _, tt := range tests {
		logger, err := New(tt.opts)
		if tt.wantError {
			if err == nil {
				t.Fatalf("%+v: expected error", tt.opts)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%+v: %v", tt.opts, err)
		}
		core := logger.Core()
		if got := core.Enabled(-1); got != tt.debugOn {
			t.Errorf("%+v: debug enabled = %v", tt.opts, got)
		}
		if got := core.Enabled(0); got != tt.infoOn {
			t.Errorf("%+v: info enabled = %v", tt.opts, got)
		}
	}
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "haulctl.log")
	logger, err := New(Options{Level: "info", File: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("loaded customers")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "loaded customers") {
		t.Fatalf("log file missing entry: %q", data)
	}
}
