package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newFilmsCommand(ctx *commandContext) *cobra.Command {
	var placeholdersOnly bool

	cmd := &cobra.Command{
		Use:   "films",
		Short: "List films in the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			films, err := store.ListFilms(cmd.Context(), placeholdersOnly)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(films) == 0 {
				fmt.Fprintln(out, "No films recorded")
				return nil
			}

			rows := make([][]string, 0, len(films))
			for _, film := range films {
				year := ""
				if film.Year > 0 {
					year = fmt.Sprint(film.Year)
				}
				tmdbID := ""
				if film.TMDBID != 0 {
					tmdbID = fmt.Sprint(film.TMDBID)
				}
				rows = append(rows, []string{
					film.ID,
					film.Title,
					year,
					tmdbID,
					strings.Join(film.Directors, ", "),
					yesNo(film.Placeholder()),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Year", "TMDB", "Directors", "Placeholder"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&placeholdersOnly, "placeholders", false, "Only show films awaiting metadata backfill")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
