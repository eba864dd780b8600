package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKeywordsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "keywords FILE",
		Short: "Print the keywords extracted from a document, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.matcher()
			if err != nil {
				return err
			}
			text, err := readDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, kw := range m.Extract(text) {
				fmt.Fprintln(out, kw)
			}
			return nil
		},
	}
}
