package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/deepgo/network"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		ontologyPath  string
		functionsPath string
		inputWidth    int
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the network for an active function list",
		Long: `Build compiles the active functions below the configured namespace root
into merge, transform and classify units and prints them in build order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.context(ontologyPath, functionsPath)
			if err != nil {
				return err
			}
			strategy, err := a.cfg.BuildStrategy()
			if err != nil {
				return err
			}
			rec := network.NewRecorder()
			input, err := rec.Input(inputWidth)
			if err != nil {
				return err
			}
			net, err := network.Build(cmd.Context(), input, c, rec,
				network.WithWidth(a.cfg.NodeWidth),
				network.WithStrategy(strategy),
				network.WithLogger(a.logger))
			if err != nil {
				return err
			}
			ex, err := network.NewExecutor(rec, a.cfg.Seed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TERM\tINDEX\tDEPTH\tPARENTS\tFORWARD\tOUTPUT")
			for _, u := range net.Units() {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d\t%d\n",
					u.Term, u.Index, u.Depth, strings.Join(u.Parents, ","), u.Forward, u.Output)
			}
			if err = tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "units=%d active=%d ops=%d params=%d strategy=%s\n",
				net.Len(), c.Active().Len(), rec.Len(), ex.ParamCount(), net.Strategy())

			return err
		},
	}
	cmd.Flags().StringVar(&ontologyPath, "ontology", "", "YAML term list")
	cmd.Flags().StringVar(&functionsPath, "functions", "", "Active function list, one term per line")
	cmd.Flags().IntVar(&inputWidth, "input-width", 256, "Width of the root representation")
	_ = cmd.MarkFlagRequired("ontology")
	_ = cmd.MarkFlagRequired("functions")

	return cmd
}
