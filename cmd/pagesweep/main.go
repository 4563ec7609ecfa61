// pagesweep deletes stale Cloudflare Pages deployments.
//
// Every project of an account is walked page by page. Aliased deployments,
// recent deployments and the newest successful and failed deployments are
// kept; everything else is deleted one request at a time.
//
// Usage:
//
//	# Preview what would be deleted
//	pagesweep delete --dry-run
//
//	# Keep 5 successful and 2 failed deployments younger than 14 days
//	pagesweep delete --retain-success-count 5 --retain-failed-count 2 --retain-recent-days 14
//
//	# Run nightly, serving Prometheus metrics and reloading the config file
//	pagesweep schedule --config /etc/pagesweep/pagesweep.yaml
//
//	# Store the API token in the OS keyring
//	pagesweep auth login
package main

func main() {
	Execute()
}
