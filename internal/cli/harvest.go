package cli

import (
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/savedplaces/internal/pipeline"
	"github.com/pfrederiksen/savedplaces/internal/scraper"
)

func (a *app) newHarvestCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "harvest-emails",
		Short: "Scrape stored places' websites for email addresses",
		Long: `Visits the website of every stored place that has no email data yet and
adds the addresses found on the page to its record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg

			store, err := a.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			opts := []scraper.Option{
				scraper.WithTimeout(cfg.HarvestTimeout()),
				scraper.WithMaxBodySize(cfg.Harvest.MaxBodyBytes),
			}
			if cfg.Harvest.UserAgent != "" {
				opts = append(opts, scraper.WithUserAgent(cfg.Harvest.UserAgent))
			}

			harvester := pipeline.NewHarvester(store, scraper.New(opts...), pipeline.HarvesterOptions{
				Force: force,
			}, a.log)

			summary, runErr := harvester.Run(cmd.Context())
			if err := a.writeSummary(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-harvest places that already have emails")

	return cmd
}
