package credentials

import (
	"pagesweep-hq/pagesweep/pkg/config"
)

// Source names where the credentials of a run came from.
type Source string

const (
	SourceNone    Source = "none"
	SourceConfig  Source = "config"
	SourceFile    Source = "file"
	SourceKeyring Source = "keyring"
)

// Resolve completes cfg's credentials. Explicit configuration (file or
// environment) wins, then the token file, then the keyring. A failing
// token file is an error; an unavailable keyring is returned with
// SourceNone so callers can report it alongside validation errors.
func Resolve(cfg *config.CloudflareConfig, store *Store) (Source, error) {
	if cfg.HasCredentials() {
		return SourceConfig, nil
	}

	used, err := FillFromFile(cfg)
	if err != nil {
		return SourceNone, err
	}
	if used {
		return SourceFile, nil
	}

	used, err = store.Fill(cfg)
	if err != nil {
		return SourceNone, err
	}
	if used {
		return SourceKeyring, nil
	}
	return SourceNone, nil
}
