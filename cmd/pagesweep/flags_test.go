package main

import (
	"errors"
	"slices"
	"testing"

	"github.com/spf13/pflag"

	"pagesweep-hq/pagesweep/pkg/cli"
	"pagesweep-hq/pagesweep/pkg/config"
)

func parseRetention(t *testing.T, cfg *config.Config, args ...string) error {
	t.Helper()

	var f retentionFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addRetentionFlags(fs, &f)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}
	return applyRetentionFlags(fs, &f, cfg)
}

func TestApplyRetentionFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, r config.RetentionConfig)
	}{
		{
			name: "unset flags keep config values",
			args: nil,
			check: func(t *testing.T, r config.RetentionConfig) {
				if r.SuccessCount != 7 || r.FailedCount != 3 || r.RecentDays != 14 || !r.DryRun {
					t.Errorf("retention = %+v", r)
				}
			},
		},
		{
			name: "counts override",
			args: []string{"--retain-success-count", "1", "--retain-failed-count", "0", "--retain-recent-days", "2"},
			check: func(t *testing.T, r config.RetentionConfig) {
				if r.SuccessCount != 1 || r.FailedCount != 0 || r.RecentDays != 2 {
					t.Errorf("retention = %+v", r)
				}
			},
		},
		{
			name: "legacy recent days flag",
			args: []string{"--retain-rencent-days", "5"},
			check: func(t *testing.T, r config.RetentionConfig) {
				if r.RecentDays != 5 {
					t.Errorf("RecentDays = %d, want 5", r.RecentDays)
				}
			},
		},
		{
			name: "correct flag beats legacy flag",
			args: []string{"--retain-rencent-days", "5", "--retain-recent-days", "9"},
			check: func(t *testing.T, r config.RetentionConfig) {
				if r.RecentDays != 9 {
					t.Errorf("RecentDays = %d, want 9", r.RecentDays)
				}
			},
		},
		{
			name: "dry run can be switched off",
			args: []string{"--dry-run=false"},
			check: func(t *testing.T, r config.RetentionConfig) {
				if r.DryRun {
					t.Error("DryRun = true")
				}
			},
		},
		{
			name: "projects replace the config list",
			args: []string{"--project", "blog", "--project", " ", "--project", "docs"},
			check: func(t *testing.T, r config.RetentionConfig) {
				if !slices.Equal(r.Projects, []string{"blog", "docs"}) {
					t.Errorf("Projects = %v", r.Projects)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Retention = config.RetentionConfig{
				SuccessCount: 7,
				FailedCount:  3,
				RecentDays:   14,
				DryRun:       true,
				Projects:     []string{"legacy"},
			}
			if err := parseRetention(t, cfg, tt.args...); err != nil {
				t.Fatalf("applyRetentionFlags() error = %v", err)
			}
			tt.check(t, cfg.Retention)
		})
	}
}

func TestApplyRetentionFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"not a number", []string{"--retain-success-count", "many"}},
		{"negative", []string{"--retain-failed-count=-1"}},
		{"fraction", []string{"--retain-recent-days", "1.5"}},
		{"legacy flag", []string{"--retain-rencent-days", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseRetention(t, config.Default(), tt.args...)
			var cfgErr *cli.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error = %v, want *cli.ConfigError", err)
			}
			if cli.ExitCode(err) != cli.ExitUsage {
				t.Errorf("ExitCode = %d, want %d", cli.ExitCode(err), cli.ExitUsage)
			}
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"20", 20, false},
		{" 5 ", 5, false},
		{"", 0, true},
		{"-3", 0, true},
		{"ten", 0, true},
	}

	for _, tt := range tests {
		got, err := parseCount("retain-success-count", tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCount(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseCount(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestRetentionFlagDefaults(t *testing.T) {
	var f retentionFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addRetentionFlags(fs, &f)

	for name, want := range map[string]string{
		flagSuccessCount: "20",
		flagFailedCount:  "10",
		flagRecentDays:   "30",
	} {
		if got := fs.Lookup(name).DefValue; got != want {
			t.Errorf("--%s default = %q, want %q", name, got, want)
		}
	}
	if fs.Lookup(flagRecentDaysLegacy).Deprecated == "" {
		t.Error("legacy flag is not marked deprecated")
	}
}
