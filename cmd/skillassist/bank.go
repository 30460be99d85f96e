package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mind-engage/skillassist/internal/skill"
)

func newBankCmd() *cobra.Command {
	bankCmd := &cobra.Command{
		Use:   "bank",
		Short: "Inspect the question bank",
	}
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check a question bank dataset and print per-track counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("path")
			b, err := loadBank(path)
			if err != nil {
				return err
			}
			if err := b.Validate(); err != nil {
				return err
			}
			src := path
			if src == "" {
				src = "(embedded)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bank %s: ok\n", src)
			for _, tr := range skill.Tracks() {
				n, err := b.Count(tr)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %-8s %d questions\n", tr, n)
			}
			return nil
		},
	}
	validate.Flags().String("path", "", "YAML bank file (default: embedded bank)")
	bankCmd.AddCommand(validate)
	return bankCmd
}
