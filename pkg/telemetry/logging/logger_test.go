package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T, cfg Config) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	cfg.Writer = buf
	noColor := false
	if cfg.Color == nil {
		cfg.Color = &noColor
	}
	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return logger, buf
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid JSON config", Config{Level: "info", Format: "json"}, false},
		{"valid text config", Config{Level: "debug", Format: "text"}, false},
		{"valid console config", Config{Level: "warn", Format: "console"}, false},
		{"defaults", Config{}, false},
		{"invalid log level", Config{Level: "invalid", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "invalid"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogger_JSONIncludesContextFields(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "info", Format: "json"})

	ctx := WithProject(WithRunID(context.Background(), "run-1"), "blog")
	logger.InfoContext(ctx, "deployment kept", "deployment_id", "d1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON output %q: %v", buf.String(), err)
	}
	if entry["run_id"] != "run-1" || entry["project"] != "blog" {
		t.Errorf("context fields missing: %v", entry)
	}
	if entry["deployment_id"] != "d1" {
		t.Errorf("deployment_id = %v", entry["deployment_id"])
	}
}

func TestLogger_RedactsSecrets(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "info", Format: "text", Secrets: []string{"cf-secret-token-value"}})

	logger.Info("request failed with cf-secret-token-value",
		"error", errors.New("GET with Bearer cf-secret-token-value rejected"),
		"api_token", "anything",
		"email", "ops@example.com",
	)

	out := buf.String()
	if strings.Contains(out, "cf-secret-token-value") {
		t.Errorf("secret leaked: %s", out)
	}
	if strings.Contains(out, "anything") {
		t.Errorf("sensitive key not masked: %s", out)
	}
	if strings.Contains(out, "ops@example.com") || !strings.Contains(out, "o***@example.com") {
		t.Errorf("email not partially masked: %s", out)
	}
}

func TestLogger_AddSecretAfterCreation(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Format: "json"})
	derived := logger.With("component", "test")

	logger.AddSecret("late-secret-1234")
	derived.Info("value late-secret-1234")

	if strings.Contains(buf.String(), "late-secret-1234") {
		t.Errorf("secret added later leaked through derived logger: %s", buf.String())
	}
}

func TestLogger_Quiet(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "debug", Format: "console", Quiet: true})

	logger.Info("hidden")
	logger.Error("also hidden")

	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q", buf.String())
	}
}

func TestLogger_SetLevel(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "warn", Format: "console"})

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}

	if err := logger.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	logger.Info("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("info not logged after SetLevel(debug): %q", buf.String())
	}

	if err := logger.SetLevel("loud"); err == nil {
		t.Error("SetLevel(loud) should fail")
	}
}

func TestConsoleHandler(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "debug", Format: "console"})
	component := logger.With("component", "sweeper")

	component.Info("[blog] (delete) 2024-01-01 10:00:00 preview https://x.pages.dev (success)", "deployment_id", "d1")
	component.Warn("skipping deployment", "reason", "missing created_on")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if lines[0] != "[blog] (delete) 2024-01-01 10:00:00 preview https://x.pages.dev (success)" {
		t.Errorf("info line = %q, want message only", lines[0])
	}
	if lines[1] != `WARN skipping deployment component=sweeper reason="missing created_on"` {
		t.Errorf("warn line = %q", lines[1])
	}
}

func TestConsoleHandler_Color(t *testing.T) {
	color := true
	logger, buf := newTestLogger(t, Config{Format: "console", Color: &color})

	logger.Error("boom")

	if !strings.HasPrefix(buf.String(), ansiRed+"ERROR "+ansiReset) {
		t.Errorf("error line not colored: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"debug", false},
		{"INFO", false},
		{"", false},
		{"warning", false},
		{"error", false},
		{"trace", true},
	}

	for _, tt := range tests {
		_, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestDetectColor(t *testing.T) {
	if DetectColor(&bytes.Buffer{}) {
		t.Error("DetectColor(buffer) = true, want false")
	}
	t.Setenv("NO_COLOR", "1")
	if DetectColor(nil) {
		t.Error("DetectColor with NO_COLOR = true, want false")
	}
}
