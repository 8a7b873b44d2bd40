// Package report renders validation reports for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/fwlint/pkg/core"
)

// Format selects how a report is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text or json)", s)
	}
}

// Options controls rendering.
type Options struct {
	Format Format
	// Color enables terminal styling of the text format.
	Color bool
}

// Write renders r to w.
func Write(w io.Writer, r *core.Report, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatText, "":
		return WriteText(w, r, opts.Color)
	default:
		return fmt.Errorf("unknown report format %q", opts.Format)
	}
}

// WriteJSON writes r as indented JSON followed by a newline.
func WriteJSON(w io.Writer, r *core.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
