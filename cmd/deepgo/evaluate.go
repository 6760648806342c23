package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/deepgo/evaluation"
	"github.com/katalvlaran/deepgo/store"
)

// predictions is the on-disk form of a held-out set: scores and labels are
// (active × examples), truth has one term list per example.
type predictions struct {
	Accessions []string    `json:"accessions"`
	Scores     [][]float64 `json:"scores"`
	Labels     [][]float64 `json:"labels"`
	Truth      [][]string  `json:"truth"`
}

func readPredictions(path string) (*predictions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p predictions
	if err = json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &p, nil
}

// dense stacks rows into a matrix; nil for an empty or all-empty input.
func dense(name string, rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		for i, r := range rows {
			if len(r) != 0 {
				return nil, fmt.Errorf("%s: row %d has %d values, want 0", name, i, len(r))
			}
		}
		return nil, nil
	}
	m := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, r := range rows {
		if len(r) != len(rows[0]) {
			return nil, fmt.Errorf("%s: row %d has %d values, want %d", name, i, len(r), len(rows[0]))
		}
		m.SetRow(i, r)
	}

	return m, nil
}

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		ontologyPath    string
		functionsPath   string
		predictionsPath string
		storePath       string
		perFunction     bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score predictions with hierarchy-aware precision, recall and F1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.context(ontologyPath, functionsPath)
			if err != nil {
				return err
			}
			p, err := readPredictions(predictionsPath)
			if err != nil {
				return err
			}
			scores, err := dense("scores", p.Scores)
			if err != nil {
				return err
			}
			bits, err := dense("labels", p.Labels)
			if err != nil {
				return err
			}
			rep, err := evaluation.Evaluate(scores, bits, p.Truth, c,
				evaluation.WithThreshold(a.cfg.Threshold),
				evaluation.WithLogger(a.logger))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "precision=%.4f recall=%.4f f1=%.4f included=%d/%d\n",
				rep.Precision, rep.Recall, rep.F1, rep.Included, len(rep.Proteins))
			if perFunction {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TERM\tPRECISION\tRECALL\tF1\tSUPPORT")
				for _, f := range rep.Functions {
					fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%d\n", f.Term, f.Precision, f.Recall, f.F1, f.Support)
				}
				if err = tw.Flush(); err != nil {
					return err
				}
			}
			if storePath == "" {
				return nil
			}

			st, err := store.Open(cmd.Context(), storePath)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			strategy, _ := a.cfg.BuildStrategy()
			run, err := st.Save(cmd.Context(), store.Run{
				Root:      c.Root(),
				Strategy:  strategy.String(),
				Precision: rep.Precision,
				Recall:    rep.Recall,
				F1:        rep.F1,
				Included:  rep.Included,
				TestLoss:  math.NaN(),
				Functions: rep.Functions,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "run=%s\n", run.ID)

			return err
		},
	}
	cmd.Flags().StringVar(&ontologyPath, "ontology", "", "YAML term list")
	cmd.Flags().StringVar(&functionsPath, "functions", "", "Active function list, one term per line")
	cmd.Flags().StringVar(&predictionsPath, "predictions", "", "JSON file with accessions, scores, labels and truth")
	cmd.Flags().StringVar(&storePath, "store", "", "Persist the run to this SQLite database")
	cmd.Flags().BoolVar(&perFunction, "per-function", false, "Print a report line per active function")
	for _, name := range []string{"ontology", "functions", "predictions"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
