package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jobfit-backend/internal/report"
)

func newReportCmd(opts *options) *cobra.Command {
	var (
		resumePath string
		jdPath     string
		outPath    string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a DOCX optimization report for a resume and job description",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.matcher()
			if err != nil {
				return err
			}
			entries, err := analyzeAll(cmd.Context(), m, resumePath, []string{jdPath})
			if err != nil {
				return err
			}
			data, err := report.Render(entries[0].Result, time.Now())
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (match score %d%%)\n", outPath, entries[0].Result.MatchScore)
			return nil
		},
	}
	cmd.Flags().StringVarP(&resumePath, "resume", "r", "", "resume file (PDF, DOCX or text)")
	cmd.Flags().StringVarP(&jdPath, "jd", "j", "", "job description file")
	cmd.Flags().StringVarP(&outPath, "out", "o", report.FileName, "output path")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("jd")
	return cmd
}
