package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobfit-backend/internal/bootstrap"
	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/matcher"
)

var version = "dev"

type options struct {
	profilePath string
	scoreFloor  int
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "jobfit",
		Short:        "Match a resume against job descriptions",
		Long:         "jobfit extracts keywords from a resume and job descriptions, scores the overlap and writes optimization reports.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.profilePath, "profile", "p", os.Getenv("MATCHER_PROFILE"), "matcher profile YAML (default: MATCHER_PROFILE env var or built-in profile)")
	cmd.PersistentFlags().IntVar(&opts.scoreFloor, "score-floor", -1, "override the profile score floor (0 disables it)")

	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newKeywordsCmd(opts),
		newReportCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *options) matcher() (*matcher.Matcher, error) {
	return bootstrap.BuildMatcher(o.profilePath, o.scoreFloor)
}

// readDocument extracts text from a PDF, DOCX or plain text file.
func readDocument(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := extract.ExtractTextFromBytes(ctx, data, "", path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jobfit %s\n", version)
		},
	}
}
