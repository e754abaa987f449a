package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cinescout/internal/ingest"
	"cinescout/internal/scraper"
)

func newScrapeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Scrape all configured cinemas and refresh the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.buildLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := ctx.newResolver(store, logger)
			if err != nil {
				return err
			}
			ingestor := ingest.NewIngestor(store, res, logger)
			runner := ingest.NewRunner(cfg, store, ingestor, scraper.NewRegistry(), logger)

			summary, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s finished in %s\n", summary.RunID, summary.Duration.Round(timePrecision))
			fmt.Fprintln(out, renderTable(
				[]string{"Cinemas", "Errors", "Created", "Updated", "Failed"},
				[][]string{{
					fmt.Sprint(summary.Cinemas),
					fmt.Sprint(summary.CinemaErrors),
					fmt.Sprint(summary.ShowingsCreated),
					fmt.Sprint(summary.ShowingsUpdated),
					fmt.Sprint(summary.ShowingsFailed),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}
