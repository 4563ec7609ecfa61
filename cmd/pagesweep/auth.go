package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pagesweep-hq/pagesweep/pkg/config"
	"pagesweep-hq/pagesweep/pkg/credentials"
)

var authFlags struct {
	tokenStdin bool
	noVerify   bool
}

// verifyTimeout bounds the token check made by login and status.
const verifyTimeout = 15 * time.Second

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API token stored in the OS keyring",
	Long: `Store, remove or check the Cloudflare API token kept in the OS keyring.

The stored token is used whenever neither a token nor an API key and email
are configured. Tokens are stored per account ID.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token in the OS keyring",
	Long: `Prompt for a Cloudflare API token without echoing it, verify it and store it
in the OS keyring.

Examples:
  # Interactive prompt
  pagesweep auth login

  # From a secret manager
  vault read -field=token secret/cloudflare | pagesweep auth login --token-stdin`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credentials are in use and verify them",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authStatusCmd)

	authLoginCmd.Flags().BoolVar(&authFlags.tokenStdin, "token-stdin", false, "read the token from stdin instead of prompting")
	authLoginCmd.Flags().BoolVar(&authFlags.noVerify, "no-verify", false, "store the token without verifying it")
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	token, err := readToken(cmd)
	if err != nil {
		return err
	}

	if !authFlags.noVerify {
		cfg.Cloudflare.APIToken = token
		cfg.Cloudflare.APIKey = ""
		cfg.Cloudflare.Email = ""
		if err := verifyCredentials(cmd, cfg); err != nil {
			return fmt.Errorf("token rejected: %w", err)
		}
	}

	if err := credentials.NewStore(keyringService).SaveToken(cfg.Cloudflare.AccountID, token); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Token stored for account %s\n", accountLabel(cfg.Cloudflare.AccountID))
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	err = credentials.NewStore(keyringService).DeleteToken(cfg.Cloudflare.AccountID)
	if errors.Is(err, credentials.ErrNotFound) {
		fmt.Fprintf(cmd.OutOrStdout(), "No token stored for account %s\n", accountLabel(cfg.Cloudflare.AccountID))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Token removed for account %s\n", accountLabel(cfg.Cloudflare.AccountID))
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	source, err := finalizeConfig(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Account:     %s\n", cfg.Cloudflare.AccountID)
	fmt.Fprintf(out, "Credentials: %s (%s)\n", credentialKind(cfg.Cloudflare.APIToken), source)

	if cfg.Cloudflare.APIToken == "" {
		// Global API keys cannot be checked with the token endpoint.
		return nil
	}
	return verifyCredentials(cmd, cfg)
}

// verifyCredentials checks cfg's API token against the token endpoint and
// prints its status.
func verifyCredentials(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), verifyTimeout)
	defer cancel()

	status, err := client.VerifyToken(ctx)
	if err != nil {
		return err
	}
	if status.Status != "active" {
		return fmt.Errorf("token status is %q", status.Status)
	}

	line := "Token:       active"
	if !status.ExpiresOn.IsZero() {
		line += ", expires " + status.ExpiresOn.Format(time.RFC3339)
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}

func readToken(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()

	if f, ok := in.(*os.File); ok && !authFlags.tokenStdin && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Cloudflare API token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return nonEmptyToken(string(b))
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token: %w", err)
	}
	return nonEmptyToken(line)
}

func nonEmptyToken(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("no token given")
	}
	return s, nil
}

func credentialKind(token string) string {
	if token != "" {
		return "API token"
	}
	return "global API key"
}

func accountLabel(accountID string) string {
	if accountID == "" {
		return "(default)"
	}
	return accountID
}
