package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/savedplaces/internal/pipeline"
)

// OutputFormat specifies the run summary format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// summaryDoc is the serialized form of a run summary
type summaryDoc struct {
	pipeline.Summary `yaml:",inline"`
	DurationMS       int64          `json:"duration_ms" yaml:"duration_ms"`
	Counts           map[string]int `json:"counts" yaml:"counts"`
}

func (a *app) writeSummary(w io.Writer, summary *pipeline.Summary) error {
	if summary == nil {
		return nil
	}
	format := OutputFormat(strings.ToLower(a.cfg.Summary.Format))
	return WriteSummary(w, summary, format, a.verbose)
}

// WriteSummary writes a run summary in the specified format
func WriteSummary(w io.Writer, summary *pipeline.Summary, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summary)
	case FormatYAML:
		return writeYAML(w, summary)
	case FormatText:
		return writeText(w, summary, verbose)
	default:
		return eris.Errorf("unknown summary format: %s", format)
	}
}

func newSummaryDoc(s *pipeline.Summary) summaryDoc {
	return summaryDoc{
		Summary:    *s,
		DurationMS: s.Duration().Milliseconds(),
		Counts: map[string]int{
			string(pipeline.StatusOK):      s.Count(pipeline.StatusOK),
			string(pipeline.StatusSkipped): s.Count(pipeline.StatusSkipped),
			string(pipeline.StatusFailed):  s.Count(pipeline.StatusFailed),
		},
	}
}

// writeJSON outputs the summary as JSON
func writeJSON(w io.Writer, s *pipeline.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newSummaryDoc(s))
}

// writeYAML outputs the summary as YAML
func writeYAML(w io.Writer, s *pipeline.Summary) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(newSummaryDoc(s)); err != nil {
		return eris.Wrap(err, "encoding summary")
	}
	return encoder.Close()
}

// writeText outputs the summary as human-readable text.
// Successful items are only listed in verbose mode.
func writeText(w io.Writer, s *pipeline.Summary, verbose bool) error {
	fmt.Fprintf(w, "\n%s: %d ok, %d skipped, %d failed (%s)\n",
		s.Stage,
		s.Count(pipeline.StatusOK),
		s.Count(pipeline.StatusSkipped),
		s.Count(pipeline.StatusFailed),
		s.Duration().Round(time.Millisecond),
	)

	for _, o := range s.Outcomes {
		if o.Status == pipeline.StatusOK && !verbose {
			continue
		}

		label := strings.ToUpper(string(o.Status))
		if o.Reason != "" {
			fmt.Fprintf(w, "  %-7s %s (%s)", label, o.Key, o.Reason)
		} else {
			fmt.Fprintf(w, "  %-7s %s", label, o.Key)
		}
		if o.Detail != "" {
			fmt.Fprintf(w, ": %s", o.Detail)
		}
		fmt.Fprintln(w)
	}

	if verbose {
		fmt.Fprintf(w, "Run ID: %s\n", s.RunID)
	}
	return nil
}
