package main

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"pagesweep-hq/pagesweep/pkg/cli"
	"pagesweep-hq/pagesweep/pkg/config"
)

// Retention flag names.
const (
	flagSuccessCount     = "retain-success-count"
	flagFailedCount      = "retain-failed-count"
	flagRecentDays       = "retain-recent-days"
	flagRecentDaysLegacy = "retain-rencent-days"
	flagDryRun           = "dry-run"
	flagProject          = "project"
)

// retentionFlags holds the retention overrides shared by delete and
// schedule. Counts are kept as strings and parsed after flag parsing so a
// bad value is reported as a config error naming the flag.
type retentionFlags struct {
	successCount     string
	failedCount      string
	recentDays       string
	recentDaysLegacy string
	dryRun           bool
	projects         []string
}

func addRetentionFlags(fs *pflag.FlagSet, f *retentionFlags) {
	fs.StringVar(&f.successCount, flagSuccessCount, strconv.Itoa(config.DefaultSuccessCount),
		"number of successful deployments to keep per project")
	fs.StringVar(&f.failedCount, flagFailedCount, strconv.Itoa(config.DefaultFailedCount),
		"number of failed deployments to keep per project")
	fs.StringVar(&f.recentDays, flagRecentDays, strconv.Itoa(config.DefaultRecentDays),
		"keep every deployment created within this many days")
	fs.StringVar(&f.recentDaysLegacy, flagRecentDaysLegacy, "", "")
	fs.BoolVar(&f.dryRun, flagDryRun, false, "report what would be deleted without deleting")
	fs.StringArrayVar(&f.projects, flagProject, nil, "only sweep this project (repeatable)")

	_ = fs.MarkDeprecated(flagRecentDaysLegacy, "use --"+flagRecentDays+" instead")
}

type countFlag struct {
	name  string
	value string
	dst   *int
}

// applyRetentionFlags copies the flags that were set on the command line
// into cfg.
func applyRetentionFlags(fs *pflag.FlagSet, f *retentionFlags, cfg *config.Config) error {
	ret := &cfg.Retention

	counts := []countFlag{
		{flagSuccessCount, f.successCount, &ret.SuccessCount},
		{flagFailedCount, f.failedCount, &ret.FailedCount},
		{flagRecentDays, f.recentDays, &ret.RecentDays},
	}
	// The misspelled flag only applies when the correct one is absent.
	if fs.Changed(flagRecentDaysLegacy) && !fs.Changed(flagRecentDays) {
		counts = append(counts, countFlag{flagRecentDaysLegacy, f.recentDaysLegacy, &ret.RecentDays})
	}

	for _, c := range counts {
		if !fs.Changed(c.name) {
			continue
		}
		n, err := parseCount(c.name, c.value)
		if err != nil {
			return err
		}
		*c.dst = n
	}

	if fs.Changed(flagDryRun) {
		ret.DryRun = f.dryRun
	}
	if fs.Changed(flagProject) {
		ret.Projects = nil
		for _, p := range f.projects {
			if p = strings.TrimSpace(p); p != "" {
				ret.Projects = append(ret.Projects, p)
			}
		}
	}
	return nil
}

// parseCount parses a non-negative integer flag value.
func parseCount(name, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, cli.NewConfigError("--"+name, value, "is not a whole number")
	}
	if n < 0 {
		return 0, cli.NewConfigError("--"+name, value, "must not be negative")
	}
	return n, nil
}
