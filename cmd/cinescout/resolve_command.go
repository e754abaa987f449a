package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var yearFlag int
	var cinemaFlag string

	cmd := &cobra.Command{
		Use:   "resolve <title>",
		Short: "Resolve a raw listing title to its canonical film",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			title := strings.Join(args, " ")
			film, err := res.Resolve(cmd.Context(), title, cinemaFlag, yearFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", film.ID)
			fmt.Fprintf(out, "Title:       %s\n", film.Title)
			if film.Year > 0 {
				fmt.Fprintf(out, "Year:        %d\n", film.Year)
			}
			if film.TMDBID != 0 {
				fmt.Fprintf(out, "TMDB:        %d\n", film.TMDBID)
			}
			if len(film.Directors) > 0 {
				fmt.Fprintf(out, "Directors:   %s\n", strings.Join(film.Directors, ", "))
			}
			if film.Runtime > 0 {
				fmt.Fprintf(out, "Runtime:     %d min\n", film.Runtime)
			}
			fmt.Fprintf(out, "Placeholder: %s\n", yesNo(film.Placeholder()))
			return nil
		},
	}

	cmd.Flags().IntVar(&yearFlag, "year", 0, "Release year hint")
	cmd.Flags().StringVar(&cinemaFlag, "cinema", "", "Cinema id to attribute the alias to")
	return cmd
}
