package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/skillassist/internal/export"
	"github.com/mind-engage/skillassist/internal/results"
	"github.com/mind-engage/skillassist/internal/skill"
)

func newResultsCmd() *cobra.Command {
	resultsCmd := &cobra.Command{
		Use:   "results",
		Short: "Work with recorded test results",
	}
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the result log to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			studentID, _ := cmd.Flags().GetString("student")
			trackVal, _ := cmd.Flags().GetString("track")

			var track skill.Track
			if trackVal != "" {
				t, err := skill.ParseTrack(trackVal)
				if err != nil {
					return err
				}
				track = t
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dbh, _, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer dbh.Close()

			list, err := results.NewSQLStore(dbh, nil).List(cmd.Context(), results.ListOpts{StudentID: studentID, Track: track})
			if err != nil {
				return fmt.Errorf("query results: %w", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.WriteResults(f, list); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d results to %s\n", len(list), out)
			return nil
		},
	}
	exportCmd.Flags().String("out", "", "Output .xlsx path (required)")
	exportCmd.Flags().String("student", "", "Only this student id")
	exportCmd.Flags().String("track", "", "Only this track")
	_ = exportCmd.MarkFlagRequired("out")
	resultsCmd.AddCommand(exportCmd)
	return resultsCmd
}
