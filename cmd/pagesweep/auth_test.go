package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"pagesweep-hq/pagesweep/pkg/credentials"
)

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAuthLoginLogout(t *testing.T) {
	keyring.MockInit()
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acc-1")

	out, err := runRoot(t, "tok-from-stdin\n", "auth", "login", "--token-stdin", "--no-verify")
	if err != nil {
		t.Fatalf("login error = %v", err)
	}
	if !strings.Contains(out, "Token stored for account acc-1") {
		t.Errorf("login output = %q", out)
	}

	token, err := credentials.NewStore(keyringService).Token("acc-1")
	if err != nil || token != "tok-from-stdin" {
		t.Fatalf("stored token = %q, %v", token, err)
	}

	if out, err = runRoot(t, "", "auth", "logout"); err != nil {
		t.Fatalf("logout error = %v", err)
	}
	if !strings.Contains(out, "Token removed") {
		t.Errorf("logout output = %q", out)
	}
	if _, err := credentials.NewStore(keyringService).Token("acc-1"); !errors.Is(err, credentials.ErrNotFound) {
		t.Errorf("token still stored after logout: %v", err)
	}

	if out, err = runRoot(t, "", "auth", "logout"); err != nil || !strings.Contains(out, "No token stored") {
		t.Errorf("second logout = %q, %v", out, err)
	}
}

func TestAuthLoginEmptyToken(t *testing.T) {
	keyring.MockInit()
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acc-1")

	if _, err := runRoot(t, "\n", "auth", "login", "--token-stdin", "--no-verify"); err == nil {
		t.Error("login with an empty token succeeded")
	}
}

func TestFinalizeConfigUsesKeyring(t *testing.T) {
	keyring.MockInit()
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acc-1")
	if err := credentials.NewStore(keyringService).SaveToken("acc-1", "stored"); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CLOUDFLARE_API_TOKEN", "")

	cfg, err := loadConfig(rootCmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	source, err := finalizeConfig(cfg)
	if err != nil {
		t.Fatalf("finalizeConfig() error = %v", err)
	}
	if source != credentials.SourceKeyring || cfg.Cloudflare.APIToken != "stored" {
		t.Errorf("source = %q, token = %q", source, cfg.Cloudflare.APIToken)
	}
}

func TestFinalizeConfigWithoutCredentials(t *testing.T) {
	keyring.MockInit()
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acc-1")
	t.Setenv("CLOUDFLARE_API_TOKEN", "")

	cfg, err := loadConfig(rootCmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if _, err := finalizeConfig(cfg); err == nil {
		t.Error("finalizeConfig() error = nil without any credentials")
	}
}
