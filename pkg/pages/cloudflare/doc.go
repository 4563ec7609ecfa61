// Package cloudflare is a small client for the Cloudflare v4 Pages API.
//
// It covers the three calls the sweeper needs: listing the projects of an
// account, listing the deployments of a project (newest first), and deleting
// a single deployment. Listings are exposed as lazy pages.Pager values so
// callers never hold more than one page in memory.
//
// # Authentication
//
// The client authenticates with an API token (Authorization: Bearer) when one
// is configured, and falls back to the legacy global API key plus account
// email (X-Auth-Key / X-Auth-Email).
//
// # Retries
//
// GET requests are retried on network errors, HTTP 429 and HTTP 5xx with
// exponential backoff. A Retry-After header on a 429 response replaces the
// computed delay. DELETE requests are sent exactly once.
//
// # Errors
//
// Failures are reported as *AuthError (401/403), *RateLimitError (429) or
// *APIError (anything else, including envelopes with success=false). Use
// errors.As to inspect them.
package cloudflare
