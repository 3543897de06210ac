package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogDisabledIsSilent(t *testing.T) {
	Disable()
	Log("sched", "tick %d", 1)
	if Enabled() {
		t.Fatal("enabled after Disable")
	}
}

func TestLogCategory(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer Disable()

	Log("sched", "window [%.1f, %.1f)", 0.0, 0.2)
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Message != "window [0.0, 0.2)" {
		t.Errorf("message = %q", entries[0].Message)
	}
	if got := entries[0].ContextMap()["category"]; got != "sched" {
		t.Errorf("category = %v, want sched", got)
	}
}

func TestLogEvery(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer Disable()

	for i := 0; i < 10; i++ {
		LogEvery(5, "audio", "render")
	}
	if n := logs.Len(); n != 2 {
		t.Fatalf("got %d entries, want 2", n)
	}
}

func TestEnableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	if err := EnableFile(path); err != nil {
		t.Fatal(err)
	}
	Log("voice", "start id=%d", 7)
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "start id=7") {
		t.Fatalf("log file missing message:\n%s", data)
	}
}
