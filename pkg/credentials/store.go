package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"pagesweep-hq/pagesweep/pkg/config"
)

// DefaultService is the keyring service name tokens are stored under.
const DefaultService = "pagesweep"

// defaultAccount is the keyring user when no account ID is known.
const defaultAccount = "default"

// ErrNotFound is returned when no token is stored for an account.
var ErrNotFound = errors.New("no token stored in the keyring")

// Store reads and writes API tokens in the OS keyring.
type Store struct {
	service string
}

// NewStore returns a Store using service, or DefaultService when empty.
func NewStore(service string) *Store {
	if service == "" {
		service = DefaultService
	}
	return &Store{service: service}
}

func user(accountID string) string {
	if accountID = strings.TrimSpace(accountID); accountID != "" {
		return accountID
	}
	return defaultAccount
}

// SaveToken stores token for accountID, replacing any previous value.
func (s *Store) SaveToken(accountID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}
	if err := keyring.Set(s.service, user(accountID), token); err != nil {
		return fmt.Errorf("save token to keyring: %w", err)
	}
	return nil
}

// Token returns the token stored for accountID, or ErrNotFound.
func (s *Store) Token(accountID string) (string, error) {
	token, err := keyring.Get(s.service, user(accountID))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read token from keyring: %w", err)
	}
	return token, nil
}

// DeleteToken removes the token stored for accountID. It returns
// ErrNotFound when there is nothing to remove.
func (s *Store) DeleteToken(accountID string) error {
	err := keyring.Delete(s.service, user(accountID))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete token from keyring: %w", err)
	}
	return nil
}

// Fill sets cfg.APIToken from the keyring when cfg carries no credentials.
// It reports whether the keyring token was used. A missing keyring entry is
// not an error; validation reports the missing credentials later.
func (s *Store) Fill(cfg *config.CloudflareConfig) (bool, error) {
	if cfg.HasCredentials() {
		return false, nil
	}

	token, err := s.Token(cfg.AccountID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	cfg.APIToken = token
	return true, nil
}
