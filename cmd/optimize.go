package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kyleking/sql-advisor/internal/analyzer"
	"github.com/kyleking/sql-advisor/internal/history"
)

func OptimizeCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "read the query from a file instead of the arguments",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "print only the rewritten query",
		},
	}
	flags = append(flags, schemaFlags()...)
	flags = append(flags, commonFlags()...)

	return &cli.Command{
		Name:        "optimize",
		Usage:       "Rewrite a SQL query using the first applicable suggestion",
		ArgsUsage:   "[query]",
		Description: `Apply the first automatic rewrite offered by the rule checks. Queries with no applicable rewrite are printed unchanged.`,
		Flags:       flags,
		Action:      runOptimize,
	}
}

func runOptimize(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setupConfig(cmd)
	if err != nil {
		return err
	}

	query, err := readQueryArg(cmd)
	if err != nil {
		return err
	}

	s, err := loadSchema(cmd)
	if err != nil {
		return err
	}

	engine := analyzer.NewEngine()
	optimized := engine.Optimize(query, s)

	if cmd.Bool("quiet") {
		fmt.Println(optimized)
	} else if optimized == query {
		fmt.Println("No automatic rewrite available; query returned unchanged.")
		fmt.Println()
		fmt.Println(optimized)
	} else {
		fmt.Println("Optimized query:")
		fmt.Println()
		fmt.Println(optimized)
	}

	result := engine.Analyze(optimized, s)

	recordHistory(ctx, cfg, history.Entry{
		Kind:   history.KindOptimize,
		Input:  query,
		Output: optimized,
		Score:  result.Score,
	})

	return nil
}
