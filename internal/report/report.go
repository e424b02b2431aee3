// Package report renders content build results for humans and CI.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/woozymasta/decksite/internal/build"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Summary is the machine-readable form of a build result.
type Summary struct {
	OK       bool      `json:"ok"`
	// Files counts discovered documents. A fail-fast build stops before
	// validating all of them.
	Files    int       `json:"files"`
	// Invalid counts documents that failed validation.
	Invalid  int       `json:"invalid"`
	Reviews  int       `json:"reviews"`
	Decks    int       `json:"decks"`
	Duration string    `json:"duration"`
	Failures []Failure `json:"failures"`
}

// Failure is one invalid field of one document.
type Failure struct {
	Collection string `json:"collection"`
	File       string `json:"file"`
	Kind       string `json:"kind"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

// Summarize flattens a snapshot into a Summary.
func Summarize(snap *build.Snapshot) Summary {
	s := Summary{
		OK:       snap.OK(),
		Files:    snap.Files,
		Invalid:  len(snap.Failures),
		Reviews:  len(snap.Reviews),
		Decks:    len(snap.Decks),
		Duration: snap.Duration.String(),
		Failures: []Failure{},
	}

	for _, de := range snap.Failures {
		kind := ""
		if de.Err != nil {
			kind = de.Err.Error()
		}
		for _, f := range de.Fields {
			field := f.Field
			if field == "" {
				field = "/"
			}
			s.Failures = append(s.Failures, Failure{
				Collection: de.Collection,
				File:       de.File,
				Kind:       kind,
				Field:      field,
				Message:    f.Message,
			})
		}
	}

	return s
}

// Write renders snap to w in the given format.
func Write(w io.Writer, snap *build.Snapshot, format string) error {
	if snap == nil {
		return fmt.Errorf("report: nil snapshot")
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(Summarize(snap)); err != nil {
			return fmt.Errorf("report: encode json: %w", err)
		}
		return nil
	case FormatTable, "":
		return writeTable(w, Summarize(snap))
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

func writeTable(w io.Writer, s Summary) error {
	if len(s.Failures) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header("Collection", "File", "Field", "Error")
		for _, f := range s.Failures {
			if err := table.Append([]string{f.Collection, f.File, f.Field, f.Message}); err != nil {
				return fmt.Errorf("report: append row: %w", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("report: render table: %w", err)
		}
	}

	if s.OK {
		_, err := color.New(color.FgGreen).Fprintf(w, "OK: %d documents valid (reviews: %d, decks: %d) in %s\n",
			s.Files, s.Reviews, s.Decks, s.Duration)
		return err
	}

	_, err := color.New(color.FgRed).Fprintf(w, "FAILED: %d of %d documents invalid, %d field error(s)\n",
		s.Invalid, s.Files, len(s.Failures))
	return err
}
