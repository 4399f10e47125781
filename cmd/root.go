// Package cmd assembles the sql-advisor command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kyleking/sql-advisor/internal/config"
	"github.com/kyleking/sql-advisor/internal/errors"
	"github.com/kyleking/sql-advisor/internal/history"
	"github.com/kyleking/sql-advisor/internal/logging"
	"github.com/kyleking/sql-advisor/internal/schema"
)

// Execute runs the root command.
func Execute() error {
	root := &cli.Command{
		Name:  "sql-advisor",
		Usage: "Analyze, optimize, and generate SQL queries",
		Description: `sql-advisor inspects SQL queries with a set of heuristic performance rules,
suggests rewrites and indexes, and can generate SQL from natural language
descriptions using an optional LLM provider with a rule-based fallback.`,
		Commands: []*cli.Command{
			AnalyzeCommand(),
			OptimizeCommand(),
			GenerateCommand(),
			SchemaCommand(),
			HistoryCommand(),
			ConfigCommand(),
		},
	}

	return root.Run(context.Background(), os.Args)
}

// commonFlags are accepted by every subcommand that needs configuration.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "db-path",
			Usage: "override the history database path",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "override the log level (debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "override the LLM provider (openai, anthropic, local, ollama)",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "override the LLM model",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "skip recording this run in the history database",
		},
	}
}

// schemaFlags control where the table schema comes from.
func schemaFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "schema",
			Aliases: []string{"s"},
			Usage:   "path to a DDL file describing the tables",
		},
		&cli.BoolFlag{
			Name:  "sample-schema",
			Usage: "use the built-in sample schema (users, orders, products)",
		},
	}
}

// setupConfig loads configuration with flag overrides applied and
// initializes the global logger from it.
func setupConfig(cmd *cli.Command) (*config.Config, error) {
	overrides := map[string]interface{}{
		"db-path":    cmd.String("db-path"),
		"log-level":  cmd.String("log-level"),
		"provider":   cmd.String("provider"),
		"model":      cmd.String("model"),
		"no-history": cmd.Bool("no-history"),
	}

	cfg, err := config.LoadConfigWithOverrides(overrides)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeConfig, "failed to load configuration")
	}

	cfg.ExpandAllPaths()

	if err := logging.InitializeLogger(cfg.Logging); err != nil {
		logging.SetupFallbackLogger()
		logging.GetLogger().WithError(err).Warn("failed to initialize logger, using fallback")
	}

	return cfg, nil
}

// loadSchema resolves the schema flags into a parsed schema. Missing flags
// yield an empty schema, which disables schema-dependent checks.
func loadSchema(cmd *cli.Command) (schema.Schema, error) {
	if cmd.Bool("sample-schema") {
		return schema.Parse(schema.Sample), nil
	}

	path := cmd.String("schema")
	if path == "" {
		return schema.Schema{}, nil
	}

	data, err := os.ReadFile(config.ExpandPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTypeFileSystem, "failed to read schema file %s", path)
	}

	return schema.Parse(string(data)), nil
}

// readQueryArg returns the SQL text for commands that take a query, either
// from the positional argument or from --file.
func readQueryArg(cmd *cli.Command) (string, error) {
	if path := cmd.String("file"); path != "" {
		data, err := os.ReadFile(config.ExpandPath(path))
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrTypeFileSystem, "failed to read query file %s", path)
		}

		return strings.TrimSpace(string(data)), nil
	}

	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return "", errors.New(errors.ErrTypeInput, "no query provided").
			WithSuggestion("Pass the query as an argument or use --file")
	}

	return query, nil
}

// recordHistory stores an entry when history is enabled. Failures are
// logged and otherwise ignored so they never break the primary command.
func recordHistory(ctx context.Context, cfg *config.Config, entry history.Entry) {
	if !cfg.Database.Enabled {
		return
	}

	store, err := history.NewStore(cfg.Database.Path)
	if err != nil {
		logging.GetLogger().WithError(err).Warn("failed to open history database")

		return
	}

	defer func() { _ = store.Close() }()

	if err := store.Initialize(ctx); err != nil {
		logging.GetLogger().WithError(err).Warn("failed to initialize history database")

		return
	}

	if _, err := store.Record(ctx, entry); err != nil {
		logging.GetLogger().WithError(err).Warn("failed to record history entry")
	}
}

// truncate shortens long history payloads for display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return fmt.Sprintf("%s...", s[:max])
}
