package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/deepgo/config"
	"github.com/katalvlaran/deepgo/labels"
	"github.com/katalvlaran/deepgo/ontology"
)

// app carries the state shared by all subcommands once the root command
// has loaded the configuration.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "deepgo",
		Short: "Ontology-shaped protein function classifiers",
		Long: `deepgo builds a classifier network whose topology mirrors a Gene Ontology
subgraph, trains it and evaluates predictions against ontology-aware ground truth.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override log_level (debug, info, warn, error)")

	root.AddCommand(newBuildCmd(a), newTrainCmd(a), newEvaluateCmd(a), newRunsCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	lvl, _ := cfg.Level()
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))

	return nil
}

// context loads the ontology and function list and freezes them around
// the configured root.
func (a *app) context(ontologyPath, functionsPath string) (*labels.Context, error) {
	g, err := ontology.LoadFile(ontologyPath)
	if err != nil {
		return nil, err
	}
	root, err := a.cfg.Root()
	if err != nil {
		return nil, err
	}
	if err = g.Validate(root); err != nil {
		return nil, err
	}
	active, err := labels.ReadIndexFile(functionsPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("ontology loaded", "terms", g.TermCount(), "relations", g.RelationCount(), "active", active.Len())

	return labels.NewContext(g, root, active)
}
