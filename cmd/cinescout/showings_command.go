package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cinescout/internal/catalog"
)

func newShowingsCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var cinemaFlag string

	cmd := &cobra.Command{
		Use:   "showings",
		Short: "List showings, optionally filtered by day and cinema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			filter := catalog.ShowingFilter{CinemaID: cinemaFlag}
			if dateFlag != "" {
				day, err := time.ParseInLocation("2006-01-02", dateFlag, time.UTC)
				if err != nil {
					return fmt.Errorf("parse --date: expected YYYY-MM-DD, got %q", dateFlag)
				}
				filter.Day = day
			}

			views, err := store.ListShowings(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No showings found")
				return nil
			}

			loc := cfg.Location()
			rows := make([][]string, 0, len(views))
			for _, view := range views {
				title := view.FilmTitle
				if view.Placeholder {
					title += " *"
				}
				price := ""
				if view.Price > 0 {
					price = fmt.Sprintf("%.2f", view.Price)
				}
				rows = append(rows, []string{
					view.StartTime.In(loc).Format("Mon 02 Jan 15:04"),
					title,
					view.CinemaName,
					view.ScreenName,
					view.FormatTag,
					price,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Start", "Film", "Cinema", "Screen", "Format", "Price"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintln(out, "* film awaiting metadata backfill")
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Only showings on this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&cinemaFlag, "cinema", "", "Only showings at this cinema id")
	return cmd
}
