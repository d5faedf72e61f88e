package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tanamoe/release-bot/release"
)

func previewCmd() *cobra.Command {
	var (
		date   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the digest for a day without posting it",
		Long: `Print the digest for a day without posting it.

Example:
  releasectl preview --date 01-06-2024`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cfg)
			if err != nil {
				return err
			}
			summary, err := svc.Digest(cmd.Context(), date)
			switch {
			case errors.Is(err, release.ErrNoReleases):
				fmt.Fprintln(cmd.OutOrStdout(), "no releases scheduled")
				return nil
			case err != nil:
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			return writeSummary(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as DD-MM-YYYY, DD/MM/YYYY or DD.MM.YYYY (default today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

// writeSummary prints a plain-text rendition of the digest.
func writeSummary(w io.Writer, s *release.Summary) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", s.DateLabel); err != nil {
		return err
	}
	for _, f := range s.Fields {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", f.Name, f.Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total: %s (%d items)\nImage: %s\n", s.TotalLabel, s.ItemCount(), s.ImageURL)
	return err
}
