package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format selects a report rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported renderings in flag order.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be text, json or yaml", s)
	}
}

// Write renders r to w in the given format.
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatText, "":
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	default:
		return fmt.Errorf("invalid format %q", format)
	}
}

// WriteJSON renders v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML renders v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteText renders r for a terminal:
//
//	run:      0192c3a0-...
//	spec:     accounts.WhenDepositing
//	category: Account, deposits
//	started:  2026-01-02T03:04:05Z
//
//	  PASS  should increase the balance
//	  FAIL  should reject overdrafts
//	        balance went negative
//
//	2 cases: 1 passed, 1 failed, 0 pending, 0 filtered
func WriteText(w io.Writer, r *Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "run:      %s\n", r.RunID)
	fmt.Fprintf(&b, "spec:     %s\n", r.Spec)
	if r.Category != "" {
		fmt.Fprintf(&b, "category: %s\n", r.Category)
	}
	if !r.StartedAt.IsZero() {
		fmt.Fprintf(&b, "started:  %s\n", r.StartedAt.UTC().Format(time.RFC3339))
	}

	if len(r.Outcomes) > 0 {
		b.WriteString("\n")
	}
	for _, o := range r.Outcomes {
		fmt.Fprintf(&b, "  %s  %s\n", o.Status.Tag(), o.Name)
		if o.Message == "" {
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(o.Message, "\n"), "\n") {
			fmt.Fprintf(&b, "        %s\n", line)
		}
	}

	if r.Fault != "" || len(r.CleanupFaults) > 0 {
		b.WriteString("\n")
	}
	if r.Fault != "" {
		fmt.Fprintf(&b, "fault: %s\n", r.Fault)
	}
	for _, f := range r.CleanupFaults {
		fmt.Fprintf(&b, "cleanup fault: %s\n", f)
	}

	c := r.Counts()
	fmt.Fprintf(&b, "\n%d cases: %d passed, %d failed, %d pending, %d filtered\n",
		c.Total(), c.Passed, c.Failed, c.Pending, c.Filtered)

	_, err := io.WriteString(w, b.String())
	return err
}
