package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"pagesweep-hq/pagesweep/pkg/sweeper"
)

// OutputFormat represents the output format for run summaries.
type OutputFormat string

const (
	// FormatText is an aligned table (default).
	FormatText OutputFormat = "text"
	// FormatJSON is the full summary as indented JSON.
	FormatJSON OutputFormat = "json"
	// FormatCSV is one row per project.
	FormatCSV OutputFormat = "csv"
)

// Formatter writes a run summary.
type Formatter interface {
	FormatTo(w io.Writer, summary *sweeper.Summary) error
}

// TextFormatter writes a human readable table.
type TextFormatter struct{}

// FormatTo writes summary to w as a table followed by a totals row.
func (f *TextFormatter) FormatTo(w io.Writer, summary *sweeper.Summary) error {
	mode := "delete"
	if summary.Policy.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(w, "Run %s (%s) finished in %s\n\n", summary.RunID, mode, summary.Duration().Round(time.Millisecond))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROJECT\tKEPT\tDELETED\tDRY RUN\tSKIPPED\tERROR")
	for _, p := range summary.Projects {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n", p.Name, p.Kept, p.Deleted, p.DryRun, p.Skipped, p.Error)
	}
	total := summary.Totals()
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%d\t%d\t\n", total.Kept, total.Deleted, total.DryRun, total.Skipped)
	if err := tw.Flush(); err != nil {
		return err
	}

	if summary.SkippedProjects > 0 || summary.FilteredProjects > 0 {
		fmt.Fprintf(w, "\n%d project(s) without a name, %d outside the project filter\n",
			summary.SkippedProjects, summary.FilteredProjects)
	}
	if summary.Error != "" {
		_, err := fmt.Fprintf(w, "\n%d project(s) failed\n", summary.Failed())
		return err
	}
	return nil
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes summary to w in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, summary *sweeper.Summary) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(summary)
}

// CSVFormatter writes one row per project.
type CSVFormatter struct{}

var csvHeaders = []string{"run_id", "project", "kept", "deleted", "dry_run", "skipped", "error"}

// FormatTo writes summary to w in CSV format.
func (f *CSVFormatter) FormatTo(w io.Writer, summary *sweeper.Summary) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(csvHeaders); err != nil {
		return err
	}
	for _, p := range summary.Projects {
		row := []string{
			summary.RunID,
			p.Name,
			strconv.Itoa(p.Kept),
			strconv.Itoa(p.Deleted),
			strconv.Itoa(p.DryRun),
			strconv.Itoa(p.Skipped),
			p.Error,
		}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &TextFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: true}, nil
	case FormatCSV:
		return &CSVFormatter{}, nil
	default:
		return nil, NewConfigError("output", string(format), "must be one of text, json, csv")
	}
}
