package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"jobfit-backend/internal/matcher"
)

type analysisEntry struct {
	JobDescription string         `json:"job_description"`
	Result         matcher.Result `json:"result"`
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	var (
		resumePath string
		jdPaths    []string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a resume against one or more job descriptions",
		Example: "  jobfit analyze --resume cv.pdf --jd backend.txt --jd platform.txt\n" +
			"  jobfit analyze --resume cv.docx --jd role.txt --score-floor 0",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.matcher()
			if err != nil {
				return err
			}
			entries, err := analyzeAll(cmd.Context(), m, resumePath, jdPaths)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
	cmd.Flags().StringVarP(&resumePath, "resume", "r", "", "resume file (PDF, DOCX or text)")
	cmd.Flags().StringArrayVarP(&jdPaths, "jd", "j", nil, "job description file; repeat for several")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("jd")
	return cmd
}

// analyzeAll scores the resume against every job description concurrently.
// Results keep the order of jdPaths.
func analyzeAll(ctx context.Context, m *matcher.Matcher, resumePath string, jdPaths []string) ([]analysisEntry, error) {
	if len(jdPaths) == 0 {
		return nil, errors.New("at least one --jd is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	resumeText, err := readDocument(ctx, resumePath)
	if err != nil {
		return nil, err
	}

	entries := make([]analysisEntry, len(jdPaths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range jdPaths {
		g.Go(func() error {
			jdText, err := readDocument(gctx, path)
			if err != nil {
				return err
			}
			entries[i] = analysisEntry{
				JobDescription: path,
				Result:         m.Analyze(resumeText, jdText),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}
