package credentials

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pagesweep-hq/pagesweep/pkg/config"
)

func writeTokenFile(t *testing.T, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cloudflare-token")
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("write token file: %v", err)
	}
	// WriteFile is subject to the umask.
	if err := os.Chmod(path, perm); err != nil {
		t.Fatalf("chmod token file: %v", err)
	}
	return path
}

func TestReadTokenFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		perm    os.FileMode
		want    string
		wantErr string
	}{
		{"owner only", "tok-123\n", 0o600, "tok-123", ""},
		{"read only", "  tok-123  ", 0o400, "tok-123", ""},
		{"group readable", "tok-123", 0o640, "tok-123", ""},
		{"world readable", "tok-123", 0o644, "", "insecure permissions"},
		{"empty", "\n", 0o600, "", "token file is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTokenFile(t, tt.content, tt.perm)

			got, err := ReadTokenFile(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ReadTokenFile() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadTokenFile() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadTokenFile() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadTokenFile_NotRegular(t *testing.T) {
	if _, err := ReadTokenFile(t.TempDir()); err == nil || !strings.Contains(err.Error(), "not a regular file") {
		t.Errorf("ReadTokenFile(dir) error = %v", err)
	}
	if _, err := ReadTokenFile(filepath.Join(t.TempDir(), "missing")); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("ReadTokenFile(missing) error = %v", err)
	}
}

func TestFillFromFile(t *testing.T) {
	path := writeTokenFile(t, "file-token\n", 0o600)

	tests := []struct {
		name      string
		cfg       config.CloudflareConfig
		wantUsed  bool
		wantToken string
	}{
		{"no file configured", config.CloudflareConfig{}, false, ""},
		{"token already set", config.CloudflareConfig{APIToken: "env", APITokenFile: path}, false, "env"},
		{"key pair already set", config.CloudflareConfig{APIKey: "k", Email: "e", APITokenFile: path}, false, ""},
		{"file used", config.CloudflareConfig{APITokenFile: path}, true, "file-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			used, err := FillFromFile(&cfg)
			if err != nil {
				t.Fatalf("FillFromFile() error = %v", err)
			}
			if used != tt.wantUsed || cfg.APIToken != tt.wantToken {
				t.Errorf("FillFromFile() = %v, token %q; want %v, %q", used, cfg.APIToken, tt.wantUsed, tt.wantToken)
			}
		})
	}
}
