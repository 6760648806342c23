package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/deepgo/dataset"
	"github.com/katalvlaran/deepgo/evaluation"
	"github.com/katalvlaran/deepgo/labels"
	"github.com/katalvlaran/deepgo/network"
	"github.com/katalvlaran/deepgo/store"
	"github.com/katalvlaran/deepgo/train"
)

// example is the on-disk form of one labeled protein. Labels are derived
// from terms against the active function list.
type example struct {
	Accession      string    `json:"accession"`
	Sequence       []int32   `json:"sequence"`
	Representation []float64 `json:"representation"`
	Terms          []string  `json:"terms"`
}

func readExamples(path string, active *labels.Index) ([]dataset.Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []example
	if err = json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	rows := make([]dataset.Example, len(raw))
	for i, r := range raw {
		rows[i] = dataset.Example{
			Accession:      r.Accession,
			Sequence:       r.Sequence,
			Representation: r.Representation,
			Terms:          r.Terms,
			Labels:         active.Encode(r.Terms),
		}
	}

	return rows, nil
}

func newTrainCmd(a *app) *cobra.Command {
	var (
		ontologyPath  string
		functionsPath string
		examplesPath  string
		storePath     string
	)
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the network on labeled examples and evaluate the held-out split",
		Long: `Train filters the examples by sequence length, splits them into train and
test sets, builds the network on the representation width, fits it with
per-epoch checkpointing and scores the test set with the best weights.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := a.cfg
			c, err := a.context(ontologyPath, functionsPath)
			if err != nil {
				return err
			}
			active := c.Active()
			rows, err := readExamples(examplesPath, active)
			if err != nil {
				return err
			}
			kept, err := dataset.Filter(rows, cfg.MaxLen)
			if err != nil {
				return err
			}
			trainRows, testRows, err := dataset.Split(kept, cfg.TrainFraction, cfg.Seed)
			if err != nil {
				return err
			}
			trainB, valB, testB, err := dataset.Reformat(trainRows, testRows, cfg.ValidationFraction, active.Len(),
				dataset.WithMaxLen(cfg.MaxLen),
				dataset.WithLogger(a.logger))
			if err != nil {
				return err
			}
			if trainB.Representations == nil {
				return fmt.Errorf("%w: %d of %d examples kept", train.ErrEmptyTrain, len(kept), len(rows))
			}
			a.logger.Info("examples loaded",
				"read", len(rows), "kept", len(kept), "train", trainB.Len(), "validation", valB.Len(), "test", testB.Len())

			strategy, err := cfg.BuildStrategy()
			if err != nil {
				return err
			}
			rec := network.NewRecorder()
			_, inputWidth := trainB.Representations.Dims()
			input, err := rec.Input(inputWidth)
			if err != nil {
				return err
			}
			net, err := network.Build(ctx, input, c, rec,
				network.WithWidth(cfg.NodeWidth),
				network.WithStrategy(strategy),
				network.WithLogger(a.logger))
			if err != nil {
				return err
			}
			ex, err := network.NewExecutor(rec, cfg.Seed)
			if err != nil {
				return err
			}
			model, err := network.NewModel(net, ex, active, network.WithLearningRate(cfg.LearningRate))
			if err != nil {
				return err
			}
			driver, err := train.NewDriver(train.Config{Epochs: cfg.Epochs, BatchSize: cfg.BatchSize}, model,
				train.WithLogger(a.logger))
			if err != nil {
				return err
			}
			res, err := driver.Run(ctx, trainB, valB, testB)
			if err != nil {
				return err
			}
			rep, err := evaluation.Evaluate(res.Predictions, testB.Labels, testB.Terms, c,
				evaluation.WithThreshold(cfg.Threshold),
				evaluation.WithLogger(a.logger))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, h := range res.History {
				fmt.Fprintf(out, "epoch=%d loss=%.4f val_loss=%.4f checkpoint=%t\n",
					h.Epoch, h.TrainLoss, h.ValLoss, h.Checkpoint)
			}
			testLoss := math.NaN()
			if testB.Len() > 0 {
				testLoss = res.TestLoss
			}
			fmt.Fprintf(out, "best_epoch=%d test_loss=%.4f params=%d\n", res.BestEpoch, testLoss, ex.ParamCount())
			fmt.Fprintf(out, "precision=%.4f recall=%.4f f1=%.4f included=%d/%d\n",
				rep.Precision, rep.Recall, rep.F1, rep.Included, len(rep.Proteins))

			path := storePath
			if path == "" {
				path = cfg.StorePath
			}
			st, err := store.Open(ctx, path)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			run, err := st.Save(ctx, store.Run{
				Root:      c.Root(),
				Strategy:  net.Strategy().String(),
				Precision: rep.Precision,
				Recall:    rep.Recall,
				F1:        rep.F1,
				Included:  rep.Included,
				TestLoss:  testLoss,
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
	cmd.Flags().StringVar(&examplesPath, "examples", "", "JSON array of {accession, sequence, representation, terms}")
	cmd.Flags().StringVar(&storePath, "store", "", "SQLite database (default: store_path from the config)")
	for _, name := range []string{"ontology", "functions", "examples"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
