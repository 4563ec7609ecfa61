// Package credentials keeps the Cloudflare API token in the operating
// system keyring (macOS Keychain, Windows Credential Manager or the Secret
// Service on Linux) so it does not have to live in the config file or the
// shell environment.
//
// Tokens are stored per account ID under the "pagesweep" service.
package credentials
