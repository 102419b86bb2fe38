package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/2beens/fitprogress/internal/catalog"
	"github.com/2beens/fitprogress/internal/config"
	"github.com/2beens/fitprogress/internal/history"
	"github.com/2beens/fitprogress/internal/kvstore"
	"github.com/2beens/fitprogress/internal/logging"
	"github.com/2beens/fitprogress/internal/progress"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	env        string
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "progressctl",
		Short:         "Inspect and edit the stored fitness progress",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.env, "env", "development", "environment [prod | production | dev | development]")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "./config.toml", "path for the TOML config file")

	root.AddCommand(newTotalsCmd(flags))
	root.AddCommand(newStateCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newExerciseCmd(flags, "complete", "Complete one set of an exercise", completeSet))
	root.AddCommand(newExerciseCmd(flags, "reset", "Reset an exercise to zero sets", resetExercise))
	root.AddCommand(newExerciseCmd(flags, "done", "Mark all sets of an exercise as completed", markDone))
	root.AddCommand(newClearCmd(flags))
	return root
}

// app is the engine wired straight to the configured store, no HTTP.
type app struct {
	kv           kvstore.Store
	engine       *progress.Engine
	history      *history.Service
	stopTracking func()
}

func loadApp(ctx context.Context, flags *rootFlags) (*app, error) {
	cfg, err := config.Load(flags.env, flags.configPath)
	if err != nil {
		return nil, err
	}
	log.SetLevel(logging.GetLevel(cfg.LogLevel))

	kv, _, err := kvstore.New(ctx, kvstore.NewStoreParams{
		Backend:       cfg.StorageBackend,
		RedisHost:     cfg.RedisHost,
		RedisPort:     cfg.RedisPort,
		RedisPassword: os.Getenv("FITPROGRESS_REDIS_PASS"),
		SQLitePath:    cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	exercises := catalog.Default()
	if cfg.CatalogPath != "" {
		c, err := catalog.LoadYAML(cfg.CatalogPath)
		if err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		exercises = c.All()
	}

	historyService := history.NewService(kv, cfg.HistoryStorageKey)
	engine := progress.NewEngine(progress.EngineParams{
		Exercises:       exercises,
		CategoryBudgets: cfg.CategoryBudgets,
		Store:           progress.NewStore(kv, cfg.ProgressStorageKey),
		Goals: staticGoals{
			DailyCalorieGoal:  cfg.DefaultDailyCalorieGoal,
			WeeklyWorkoutGoal: cfg.DefaultWeeklyWorkoutGoal,
		},
		History: historyService,
	})
	engine.Init(ctx)

	return &app{
		kv:           kv,
		engine:       engine,
		history:      historyService,
		stopTracking: engine.TrackHistory(historyService),
	}, nil
}

func (a *app) Close() error {
	a.stopTracking()
	return a.kv.Close()
}

type staticGoals progress.Goals

func (g staticGoals) Goals() progress.Goals {
	return progress.Goals(g)
}

// withApp opens the app for one command run and always closes it.
func withApp(flags *rootFlags, run func(ctx context.Context, a *app) error) error {
	ctx := context.Background()
	a, err := loadApp(ctx, flags)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Errorf("close store: %s", err)
		}
	}()
	return run(ctx, a)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTotalsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Print calories, goal percent and workout slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(_ context.Context, a *app) error {
				return printJSON(cmd.OutOrStdout(), a.engine.ComputeTotals())
			})
		},
	}
}

func newStateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print completed sets per exercise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(_ context.Context, a *app) error {
				return printJSON(cmd.OutOrStdout(), a.engine.GetState())
			})
		},
	}
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the weekly history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, a *app) error {
				summary, err := a.history.Snapshot(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
}

type exerciseOp func(ctx context.Context, engine *progress.Engine, exerciseID string) (any, bool)

func completeSet(ctx context.Context, engine *progress.Engine, exerciseID string) (any, bool) {
	return engine.CompleteSet(ctx, exerciseID)
}

func resetExercise(ctx context.Context, engine *progress.Engine, exerciseID string) (any, bool) {
	return engine.ResetExercise(ctx, exerciseID)
}

func markDone(ctx context.Context, engine *progress.Engine, exerciseID string) (any, bool) {
	return engine.MarkExerciseDone(ctx, exerciseID)
}

func newExerciseCmd(flags *rootFlags, use, short string, op exerciseOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <exercise-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app) error {
				result, ok := op(ctx, a.engine, args[0])
				if !ok {
					return fmt.Errorf("unknown exercise: %s", args[0])
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
}

func newClearCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Zero all exercises and the weekly history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, a *app) error {
				a.engine.ClearAll(ctx)
				return printJSON(cmd.OutOrStdout(), a.engine.ComputeTotals())
			})
		},
	}
}
