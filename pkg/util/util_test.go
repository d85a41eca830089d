package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFixedClock(t *testing.T) {
	start := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewFixedClock(start)

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}
	c.Advance(90 * time.Second)
	if got := c.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Fatalf("after Advance Now() = %v", got)
	}
}

var (
	_ Clock = RealClock{}
	_ Clock = (*FixedClock)(nil)
)

func TestRealClockIsUTC(t *testing.T) {
	if loc := (RealClock{}).Now().Location(); loc != time.UTC {
		t.Errorf("RealClock location = %v, want UTC", loc)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "info", false},
		{"debug", "debug", false},
		{"warn", "warn", false},
		{"loud", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lvl, err := parseLevel(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseLevel(%q) succeeded", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseLevel(%q): %v", tt.in, err)
			}
			if lvl.String() != tt.want {
				t.Errorf("parseLevel(%q) = %s, want %s", tt.in, lvl, tt.want)
			}
		})
	}
}

func TestNewLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cowmodel.log")
	logger, err := NewLoggerWithFile(path, "info")
	if err != nil {
		t.Fatalf("NewLoggerWithFile: %v", err)
	}
	logger.Sugar().Infow("auction_saved", "auction_id", 3)
	logger.Debug("dropped")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), data)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "auction_saved" || entry["level"] != "INFO" {
		t.Errorf("unexpected entry %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Errorf("entry has no ts key: %v", entry)
	}
	if entry["auction_id"] != float64(3) {
		t.Errorf("auction_id = %v", entry["auction_id"])
	}
}
