package cli

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/savedplaces/internal/maps"
	"github.com/pfrederiksen/savedplaces/internal/pipeline"
	"github.com/pfrederiksen/savedplaces/internal/place"
	"github.com/pfrederiksen/savedplaces/internal/storage"
)

func (a *app) newResolveCmd() *cobra.Command {
	var (
		limit  int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Look up saved places and store their details",
		Long: `Reads the saved-places export, looks up every row's place id with the
Place Details API and stores the result as one record per place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if cfg.Maps.APIKey == "" {
				return eris.New("no API key: set --api-key, SAVEDPLACES_MAPS_API_KEY or GOOGLE_MAPS_API_KEY")
			}

			rows, err := place.LoadSavedPlaces(cfg.Resolve.Input)
			if err != nil {
				return eris.Wrapf(err, "loading %s", cfg.Resolve.Input)
			}

			var store storage.Store
			if !dryRun {
				store, err = a.openStore(cmd.Context(), true)
				if err != nil {
					return err
				}
				defer store.Close() //nolint:errcheck
			}

			opts := []maps.Option{
				maps.WithBaseURL(cfg.Maps.BaseURL),
				maps.WithTimeout(cfg.MapsTimeout()),
				maps.WithFields(cfg.Maps.Fields...),
			}
			if cfg.Maps.Language != "" {
				opts = append(opts, maps.WithLanguage(cfg.Maps.Language))
			}
			client := maps.NewClient(cfg.Maps.APIKey, opts...)

			resolver := pipeline.NewResolver(store, client, pipeline.ResolverOptions{
				Delay:        cfg.Resolve.Delay,
				SkipFirstRow: cfg.Resolve.SkipFirstRow,
				Limit:        limit,
				DryRun:       dryRun,
			}, a.log)

			summary, runErr := resolver.Run(cmd.Context(), rows)
			if err := a.writeSummary(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().String("input", "", `Saved places CSV export (default "Takeout/Saved/Want to go.csv")`)
	cmd.Flags().String("api-key", "", "Place Details API key (or env: GOOGLE_MAPS_API_KEY)")
	cmd.Flags().Duration("delay", 0, "Delay between rows (default 1s)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Process at most N rows (0 = all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Look places up without writing to the store")

	return cmd
}
