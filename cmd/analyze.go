package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kyleking/sql-advisor/internal/analyzer"
	"github.com/kyleking/sql-advisor/internal/history"
	"github.com/kyleking/sql-advisor/internal/report"
)

func AnalyzeCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "read the query from a file instead of the arguments",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "output format (markdown, json)",
			Value: "markdown",
		},
	}
	flags = append(flags, schemaFlags()...)
	flags = append(flags, commonFlags()...)

	return &cli.Command{
		Name:        "analyze",
		Usage:       "Analyze a SQL query for performance issues",
		ArgsUsage:   "[query]",
		Description: `Run the heuristic rule checks against a query and print a report with findings, a performance score, and a complexity profile.`,
		Flags:       flags,
		Action:      runAnalyze,
	}
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
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

	result := analyzer.NewEngine().Analyze(query, s)

	out, err := report.NewFormatter().Format(result, report.OutputFormat(cmd.String("format")))
	if err != nil {
		return err
	}

	fmt.Println(out)

	recordHistory(ctx, cfg, history.Entry{
		Kind:   history.KindAnalyze,
		Input:  query,
		Output: truncate(out, 4000),
		Score:  result.Score,
	})

	return nil
}
