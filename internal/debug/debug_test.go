package debug

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", LevelOff, false},
		{"off", LevelOff, false},
		{"INFO", LevelInfo, false},
		{"live", LevelLive, false},
		{"debug", LevelVerbose, false},
		{"4", LevelTrace, false},
		{"loud", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestInit_OffDisablesEverything(t *testing.T) {
	Init(LevelOff)
	if IsEnabled(LevelInfo) {
		t.Error("IsEnabled(Info) at level off")
	}
	// must not panic with no logger
	Info("x")
	Error(errors.New("x"))
	Sync()
}

func TestInitWithFile_WritesGatedLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "coverplan.log")
	if err := InitWithFile(LevelLive, DefaultFileConfig(path), false); err != nil {
		t.Fatalf("InitWithFile: %v", err)
	}
	t.Cleanup(func() { Init(LevelOff) })

	Info("server on %s", ":8080")
	Rebuild("cam-1", 4)
	Verbose("hidden detail")
	Trace("hidden trace")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "server on :8080") {
		t.Errorf("info line missing: %q", out)
	}
	if !strings.Contains(out, "cam-1") {
		t.Errorf("rebuild line missing: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("verbose/trace line leaked at live level: %q", out)
	}
}

func TestLevel(t *testing.T) {
	Init(LevelVerbose)
	t.Cleanup(func() { Init(LevelOff) })
	if Level() != LevelVerbose {
		t.Errorf("Level() = %d, want %d", Level(), LevelVerbose)
	}
	if !IsEnabled(LevelLive) || IsEnabled(LevelTrace) {
		t.Error("IsEnabled gating wrong at verbose")
	}
}

func TestTee_InfoOnly(t *testing.T) {
	if err := InitWithFile(LevelTrace, FileConfig{}, false); err != nil {
		t.Fatalf("InitWithFile: %v", err)
	}
	t.Cleanup(func() { Init(LevelOff) })

	var buf bytes.Buffer
	Tee(&buf)
	Info("project loaded")
	Verbose("ray detail")
	Sync()

	if !strings.Contains(buf.String(), "project loaded") {
		t.Errorf("tee missing info line: %q", buf.String())
	}
	if strings.Contains(buf.String(), "ray detail") {
		t.Errorf("tee received debug line: %q", buf.String())
	}
}
