package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MikeBiancalana/datesel/internal/validate"
)

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatTSV  OutputFormat = "tsv"
	FormatCSV  OutputFormat = "csv"
)

func parseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "tsv":
		return FormatTSV, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: text, json, tsv, csv)", s)
	}
}

// Day is one enumerated selectable day.
type Day struct {
	Index   int       `json:"index"`
	Instant int64     `json:"instant"`
	Label   string    `json:"label"`
	Date    time.Time `json:"date"`
}

// ValidationReport is the outcome of validating one text.
type ValidationReport struct {
	Text     string            `json:"text"`
	Valid    bool              `json:"valid"`
	Validity validate.Validity `json:"validity"`
	Failures []string          `json:"failures,omitempty"`
	Value    string            `json:"value,omitempty"`
}

func writeDays(w io.Writer, format OutputFormat, days []Day) error {
	switch format {
	case FormatJSON:
		return formatDaysJSON(w, days)
	case FormatTSV:
		return formatDaysTSV(w, days)
	case FormatCSV:
		return formatDaysCSV(w, days)
	default:
		for _, d := range days {
			fmt.Fprintln(w, d.Label)
		}
		return nil
	}
}

func formatDaysJSON(w io.Writer, days []Day) error {
	if days == nil {
		days = []Day{}
	}
	return json.NewEncoder(w).Encode(days)
}

func formatDaysTSV(w io.Writer, days []Day) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', tabwriter.TabIndent)
	fmt.Fprintln(tw, "INDEX\tINSTANT\tLABEL")
	for _, d := range days {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", d.Index, d.Instant, d.Label)
	}
	return tw.Flush()
}

func formatDaysCSV(w io.Writer, days []Day) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"INDEX", "INSTANT", "LABEL"})
	for _, d := range days {
		record := []string{strconv.Itoa(d.Index), strconv.FormatInt(d.Instant, 10), d.Label}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeReport(w io.Writer, format OutputFormat, r ValidationReport) error {
	switch format {
	case FormatJSON:
		return json.NewEncoder(w).Encode(r)
	case FormatTSV:
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', tabwriter.TabIndent)
		fmt.Fprintln(tw, "TEXT\tVALID\tFAILURES\tVALUE")
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", r.Text, r.Valid, dashIfEmpty(strings.Join(r.Failures, ", ")), dashIfEmpty(r.Value))
		return tw.Flush()
	case FormatCSV:
		cw := csv.NewWriter(w)
		cw.Write([]string{"TEXT", "VALID", "FAILURES", "VALUE"})
		if err := cw.Write([]string{r.Text, strconv.FormatBool(r.Valid), strings.Join(r.Failures, ","), r.Value}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
		cw.Flush()
		return cw.Error()
	default:
		if r.Valid {
			fmt.Fprintf(w, "✓ %s\n", r.Value)
			return nil
		}
		fmt.Fprintf(w, "✗ %s (%s)\n", r.Text, strings.Join(r.Failures, ", "))
		return nil
	}
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
