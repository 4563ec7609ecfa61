// Package config loads and validates pagesweep configuration.
//
// # Configuration Loading
//
// Configuration is built in layers, later layers overriding earlier ones:
//
//  1. Default values (see Default and defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Command-line flags, applied by the caller
//  5. Validation (fails fast if invalid)
//
//	cfg, err := config.Load("pagesweep.yaml", false)
//	if err != nil {
//	    return err
//	}
//	// apply flags...
//	if err := config.Validate(cfg); err != nil {
//	    return err
//	}
//
// The configuration is passed explicitly to the components that need it;
// there is no package-level instance.
//
// # Environment Variable Overrides
//
// Credentials use the names shared with other Cloudflare tooling:
//
//   - CLOUDFLARE_API_TOKEN overrides cloudflare.api_token
//   - CLOUDFLARE_API_KEY and CLOUDFLARE_EMAIL override cloudflare.api_key and cloudflare.email
//   - CLOUDFLARE_ACCOUNT_ID overrides cloudflare.account_id
//
// Every other field follows PAGESWEEP_SECTION_FIELD, for example
// PAGESWEEP_RETENTION_SUCCESS_COUNT or PAGESWEEP_TELEMETRY_LOGGING_LEVEL.
// Unparseable values are reported as a ValidationError.
//
// # Hot Reload
//
// Watcher watches the file with fsnotify and hands each successfully
// validated reload to a callback. The schedule command uses it to swap the
// retention policy between runs.
package config
