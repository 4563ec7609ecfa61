package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"pagesweep-hq/pagesweep/pkg/config"
)

// ReadTokenFile reads an API token from a mounted secret file.
//
// The file must be a regular file that other users cannot read. Surrounding
// whitespace, including the trailing newline most editors add, is trimmed.
func ReadTokenFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("token file not found: %s", path)
		}
		return "", fmt.Errorf("failed to stat token file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("token path is not a regular file: %s", path)
	}
	if mode := info.Mode().Perm(); mode&0o007 != 0 {
		return "", fmt.Errorf("insecure permissions on %s: %o (must not be readable by others)", path, mode)
	}

	// #nosec G304 - the path comes from the operator's own configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", errors.New("token file is empty: " + path)
	}
	return token, nil
}

// FillFromFile sets cfg.APIToken from cfg.APITokenFile when no credentials
// are configured. It reports whether the file was used.
func FillFromFile(cfg *config.CloudflareConfig) (bool, error) {
	if cfg.HasCredentials() || cfg.APITokenFile == "" {
		return false, nil
	}

	token, err := ReadTokenFile(cfg.APITokenFile)
	if err != nil {
		return false, err
	}
	cfg.APIToken = token
	return true, nil
}
