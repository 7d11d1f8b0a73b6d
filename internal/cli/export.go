package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pfrederiksen/savedplaces/internal/pipeline"
	"github.com/pfrederiksen/savedplaces/internal/report"
)

func (a *app) newExportCmd() *cobra.Command {
	var noFilter bool

	cmd := &cobra.Command{
		Use:   "export-contacts",
		Short: "Write the contact report from stored places",
		Long: `Builds one row per stored place with its name, address, phone and emails,
drops denylisted email domains, and writes the report as CSV, a console table
or Markdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("no-filter") {
				cfg.Export.Filter = !noFilter
			}

			store, err := a.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			agg := pipeline.NewAggregator(store, pipeline.AggregatorOptions{
				Filter:   cfg.Export.Filter,
				Denylist: cfg.Export.Denylist,
			}, a.log)

			contacts, summary, runErr := agg.Run(cmd.Context())
			report.Sort(contacts, report.SortOrder(cfg.Export.Sort))

			// The summary moves to stderr when stdout carries the report
			summaryOut := cmd.OutOrStdout()
			if cfg.Export.Echo {
				summaryOut = cmd.ErrOrStderr()
			}

			if runErr == nil {
				if err := a.writeReport(cmd.OutOrStdout(), report.Format(cfg.Export.Format), contacts); err != nil {
					return err
				}
			}

			if err := a.writeSummary(summaryOut, summary); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().String("format", "", "Report format: csv, table or markdown (default csv)")
	cmd.Flags().String("output", "", "Report file (default contacts.<ext> for the format)")
	cmd.Flags().Bool("echo", false, "Also write the report to stdout")
	cmd.Flags().String("sort", "", "Row order: key, name or emails (default key)")
	cmd.Flags().BoolVar(&noFilter, "no-filter", false, "Keep denylisted email domains")

	return cmd
}

// writeReport writes the report file and echoes it to stdout when configured
func (a *app) writeReport(stdout io.Writer, format report.Format, contacts []report.Contact) error {
	path := a.cfg.OutputPath()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return eris.Wrapf(err, "creating output directory %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "creating %s", path)
	}
	defer f.Close() //nolint:errcheck

	var w io.Writer = f
	if a.cfg.Export.Echo {
		w = io.MultiWriter(f, stdout)
	}

	if err := report.Write(w, format, contacts); err != nil {
		return eris.Wrapf(err, "writing %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "closing %s", path)
	}

	a.log.Info("report written", zap.String("path", path), zap.Int("contacts", len(contacts)))
	return nil
}
