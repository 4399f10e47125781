package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kyleking/sql-advisor/internal/config"
	"github.com/kyleking/sql-advisor/internal/errors"
	"github.com/kyleking/sql-advisor/internal/history"
)

func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect past analysis and generation runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show the most recent history entries",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "maximum number of entries to show",
						Value:   20,
					},
				}, commonFlags()...),
				Action: runHistoryList,
			},
			{
				Name:   "clear",
				Usage:  "Delete all history entries",
				Flags:  commonFlags(),
				Action: runHistoryClear,
			},
		},
	}
}

func openHistoryStore(ctx context.Context, cfg *config.Config) (*history.Store, error) {
	if !cfg.Database.Enabled {
		return nil, errors.New(errors.ErrTypeConfig, "history database is disabled").
			WithSuggestion("Enable it in the config file or unset SQL_ADVISOR_DB_ENABLED")
	}

	store, err := history.NewStore(cfg.Database.Path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeStorage, "failed to open history database")
	}

	if err := store.Initialize(ctx); err != nil {
		_ = store.Close()

		return nil, errors.Wrap(err, errors.ErrTypeStorage, "failed to initialize history database")
	}

	return store, nil
}

func runHistoryList(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setupConfig(cmd)
	if err != nil {
		return err
	}

	store, err := openHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() { _ = store.Close() }()

	entries, err := store.Recent(ctx, int(cmd.Int("limit")))
	if err != nil {
		return errors.Wrap(err, errors.ErrTypeStorage, "failed to read history")
	}

	if len(entries) == 0 {
		fmt.Println("No history entries yet.")

		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-8s  score %3d  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Kind, e.Score, truncate(e.Input, 60))

		if e.Method != "" {
			fmt.Printf("%21s method: %s (%.2f)\n", "", e.Method, e.Confidence)
		}
	}

	return nil
}

func runHistoryClear(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setupConfig(cmd)
	if err != nil {
		return err
	}

	store, err := openHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() { _ = store.Close() }()

	affected, err := store.Clear(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrTypeStorage, "failed to clear history")
	}

	fmt.Printf("Removed %d history entr(ies)\n", affected)

	return nil
}
