// Package logging builds the process logger on top of log/slog.
//
// # Overview
//
// New returns a *Logger that embeds a *slog.Logger, so it can be handed to
// any component that expects one. The handler chain is:
//
//   - a context handler that adds run_id and project from the context
//   - a redacting handler that masks registered secrets and credential patterns
//   - the output handler: json, text, or console
//
// # Formats
//
//   - json: one JSON object per line (slog.JSONHandler)
//   - text: logfmt key=value pairs (slog.TextHandler)
//   - console: the message alone for info lines, the message followed by its
//     attributes for debug, warn and error lines; level prefixes are colored
//     when the output is a terminal and NO_COLOR is unset
//
// Quiet mode discards every record.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:   "info",
//	    Format:  "console",
//	    Secrets: []string{cfg.Cloudflare.APIToken},
//	})
//	if err != nil {
//	    return err
//	}
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "sweep started")  // includes run_id
//
// # Redaction
//
// Registered secrets are replaced with "***" wherever they appear in a
// message or a string attribute. Attributes whose key names a credential
// (token, api_key, authorization, password, secret) are masked entirely, and
// bearer tokens and email addresses are masked by pattern.
package logging
