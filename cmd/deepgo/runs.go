package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/deepgo/store"
)

func newRunsCmd(a *app) *cobra.Command {
	var storePath string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored training and evaluation runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := storePath
			if path == "" {
				path = a.cfg.StorePath
			}
			st, err := store.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			runs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tROOT\tSTRATEGY\tPRECISION\tRECALL\tF1\tINCLUDED\tTEST_LOSS")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.4f\t%.4f\t%.4f\t%d\t%.4f\n",
					r.ID, r.CreatedAt.Format(time.RFC3339), r.Root, r.Strategy, r.Precision, r.Recall, r.F1, r.Included, r.TestLoss)
			}

			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&storePath, "store", "", "SQLite database (default: store_path from the config)")

	return cmd
}
