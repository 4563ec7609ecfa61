package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"pagesweep-hq/pagesweep/pkg/pages/retention"
	"pagesweep-hq/pagesweep/pkg/sweeper"
)

func testSummary() *sweeper.Summary {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &sweeper.Summary{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Policy:     retention.DefaultPolicy(),
		Projects: []sweeper.ProjectResult{
			{Name: "blog", Kept: 21, Deleted: 4, KeptByReason: map[retention.Reason]int{retention.ReasonRecent: 21}},
			{Name: "docs", Kept: 3, Deleted: 1, Error: "delete deployment d9 of project docs: locked"},
		},
		FilteredProjects: 2,
		Error:            "project docs: delete deployment d9 of project docs: locked",
	}
}

func TestTextFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&TextFormatter{}).FormatTo(buf, testSummary()); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"Run run-1 (delete) finished in 1.5s",
		"PROJECT  KEPT  DELETED  DRY RUN  SKIPPED  ERROR",
		"blog     21    4        0        0",
		"TOTAL    24    5        0        0",
		"0 project(s) without a name, 2 outside the project filter",
		"1 project(s) failed",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestTextFormatterDryRun(t *testing.T) {
	summary := &sweeper.Summary{RunID: "run-2", Policy: retention.Policy{DryRun: true}}
	buf := &bytes.Buffer{}
	if err := (&TextFormatter{}).FormatTo(buf, summary); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Run run-2 (dry run)") {
		t.Errorf("output = %q", buf.String())
	}
	if strings.Contains(buf.String(), "failed") {
		t.Errorf("clean run reported failures: %q", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&JSONFormatter{Indent: true}).FormatTo(buf, testSummary()); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var result struct {
		RunID    string `json:"run_id"`
		Projects []struct {
			Name         string         `json:"name"`
			Deleted      int            `json:"deleted"`
			KeptByReason map[string]int `json:"kept_by_reason"`
		} `json:"projects"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("FormatTo() produced invalid JSON: %v", err)
	}
	if result.RunID != "run-1" || len(result.Projects) != 2 || result.Error == "" {
		t.Errorf("decoded = %+v", result)
	}
	if result.Projects[0].KeptByReason["recent"] != 21 {
		t.Errorf("kept_by_reason = %v", result.Projects[0].KeptByReason)
	}
}

func TestCSVFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&CSVFormatter{}).FormatTo(buf, testSummary()); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	records, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want 3", len(records))
	}
	if got := strings.Join(records[0], ","); got != "run_id,project,kept,deleted,dry_run,skipped,error" {
		t.Errorf("header = %q", got)
	}
	if got := strings.Join(records[1], ","); got != "run-1,blog,21,4,0,0," {
		t.Errorf("row = %q", got)
	}
	if records[2][6] == "" {
		t.Error("error column empty for failed project")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		format  OutputFormat
		want    string
		wantErr bool
	}{
		{name: "text formatter", format: FormatText, want: "*cli.TextFormatter"},
		{name: "empty is text", format: "", want: "*cli.TextFormatter"},
		{name: "json formatter", format: FormatJSON, want: "*cli.JSONFormatter"},
		{name: "csv formatter", format: FormatCSV, want: "*cli.CSVFormatter"},
		{name: "unknown", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter, err := NewFormatter(tt.format)
			if tt.wantErr {
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("NewFormatter(%q) error = %v, want *ConfigError", tt.format, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFormatter(%q) error = %v", tt.format, err)
			}
			if got := fmt.Sprintf("%T", formatter); got != tt.want {
				t.Errorf("NewFormatter(%q) type = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}
