package application

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hostpulse/internal/config/domain"
	"hostpulse/internal/infrastructure/logger"
	"hostpulse/internal/shared/validation"
)

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		check       func(t *testing.T, s domain.Settings)
	}{
		{
			name:  "empty document keeps defaults",
			input: "",
			check: func(t *testing.T, s domain.Settings) {
				if s != domain.DefaultSettings() {
					t.Errorf("expected defaults, got %+v", s)
				}
			},
		},
		{
			name: "partial override",
			input: `
poll_interval: 5s
top_processes: 25
`,
			check: func(t *testing.T, s domain.Settings) {
				if s.PollInterval != 5*time.Second {
					t.Errorf("expected 5s, got %v", s.PollInterval)
				}
				if s.TopProcesses != 25 {
					t.Errorf("expected 25, got %d", s.TopProcesses)
				}
				if s.SeriesCapacity != 50 {
					t.Errorf("expected default capacity 50, got %d", s.SeriesCapacity)
				}
			},
		},
		{
			name: "full file",
			input: `
series_capacity: 120
staleness: 1h
poll_interval: 1s
cpu_sample_interval: 250ms
call_timeout: 2s
top_processes: 5
`,
			check: func(t *testing.T, s domain.Settings) {
				want := domain.Settings{
					SeriesCapacity:    120,
					Staleness:         time.Hour,
					PollInterval:      time.Second,
					CPUSampleInterval: 250 * time.Millisecond,
					CallTimeout:       2 * time.Second,
					TopProcesses:      5,
				}
				if s != want {
					t.Errorf("expected %+v, got %+v", want, s)
				}
			},
		},
		{
			name:        "unknown field",
			input:       "series_capacty: 10\n",
			expectError: true,
		},
		{
			name:        "malformed duration",
			input:       "staleness: soon\n",
			expectError: true,
		},
		{
			name:        "invalid value",
			input:       "series_capacity: 0\n",
			expectError: true,
		},
		{
			name:        "poll shorter than cpu sampling",
			input:       "poll_interval: 150ms\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSettings([]byte(tt.input))
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got settings %+v", s)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, s)
		})
	}
}

func TestParseSettings_ValidationError(t *testing.T) {
	_, err := ParseSettings([]byte("top_processes: 500\n"))

	var validationErr *validation.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := validationErr.Problems["top_processes"]; !ok {
		t.Errorf("expected top_processes problem, got %v", validationErr.Problems)
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "no path", path: ""},
		{name: "absent file", path: filepath.Join(t.TempDir(), "nope.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LoadSettings(tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s != domain.DefaultSettings() {
				t.Errorf("expected defaults, got %+v", s)
			}
		})
	}
}

func TestSettingsWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostpulse.yaml")
	if err := os.WriteFile(path, []byte("top_processes: 10\n"), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	applied := make(chan domain.Settings, 4)
	w, err := NewSettingsWatcher(logger.DefaultLogger(), path, domain.DefaultSettings(), func(s domain.Settings) {
		applied <- s
	})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	w.debounce = 10 * time.Millisecond
	w.Start()
	defer w.Stop()

	// an invalid edit is ignored
	if err := os.WriteFile(path, []byte("top_processes: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("top_processes: 15\npoll_interval: 3s\n"), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	select {
	case s := <-applied:
		if s.TopProcesses != 15 || s.PollInterval != 3*time.Second {
			t.Errorf("unexpected applied settings: %+v", s)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for settings reload")
	}

	if got := w.Current(); got.TopProcesses != 15 {
		t.Errorf("expected current top_processes 15, got %d", got.TopProcesses)
	}
}
