package logger

import (
	"bytes"
	"os"
	"testing"
	"time"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// capture redirects output to a buffer with a fixed clock.
func capture(t *testing.T, isVerbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(isVerbose)
	now = func() time.Time { return fixedTime }
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
		now = time.Now
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func(string, ...any)
		want    string
	}{
		{"debug when verbose", true, Debug, "2024-03-01T12:00:00.000Z [DEBUG] value 42\n"},
		{"debug when quiet", false, Debug, ""},
		{"info when verbose", true, Info, "2024-03-01T12:00:00.000Z [INFO] value 42\n"},
		{"info when quiet", false, Info, ""},
		{"warn when quiet", false, Warn, "2024-03-01T12:00:00.000Z [WARN] value 42\n"},
		{"error when quiet", false, Error, "2024-03-01T12:00:00.000Z [ERROR] value 42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.verbose)
			tt.log("value %d", 42)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSection(t *testing.T) {
	buf := capture(t, false)
	Section("Answer")
	if buf.Len() != 0 {
		t.Errorf("expected no output when quiet, got %q", buf.String())
	}

	SetVerbose(true)
	Section("Answer")
	if got, want := buf.String(), "\n=== Answer ===\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			SetVerbose(true)
			Debug("concurrent %d", i)
			Warn("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
