package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/urfave/cli/v3"

	"github.com/kyleking/sql-advisor/internal/analyzer"
	"github.com/kyleking/sql-advisor/internal/errors"
	"github.com/kyleking/sql-advisor/internal/generator"
	"github.com/kyleking/sql-advisor/internal/history"
	"github.com/kyleking/sql-advisor/internal/llm"
)

func GenerateCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "print only the generated query",
		},
	}
	flags = append(flags, schemaFlags()...)
	flags = append(flags, commonFlags()...)

	return &cli.Command{
		Name:        "generate",
		Usage:       "Generate a SQL query from a natural language description",
		ArgsUsage:   "[description]",
		Description: `Generate SQL from plain English. With a configured LLM provider the AI output is validated and optimized; without one, rule-based pattern matching produces the query.`,
		Flags:       flags,
		Action:      runGenerate,
	}
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setupConfig(cmd)
	if err != nil {
		return err
	}

	description := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if description == "" {
		return errors.New(errors.ErrTypeInput, "no description provided").
			WithSuggestion("Describe the query you need, e.g. 'show me the top 5 users'")
	}

	s, err := loadSchema(cmd)
	if err != nil {
		return err
	}

	svc, err := llm.NewServiceFromConfig(cfg.LLM)
	if err != nil {
		return errors.Wrap(err, errors.ErrTypeLLM, "failed to configure LLM provider")
	}

	gen := generator.NewGenerator(svc, analyzer.NewEngine())

	var result generator.Result
	if svc != nil && !cmd.Bool("quiet") {
		sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		sp.Suffix = " generating SQL..."
		sp.Start()
		result = gen.Generate(ctx, description, s)
		sp.Stop()
	} else {
		result = gen.Generate(ctx, description, s)
	}

	recordHistory(ctx, cfg, history.Entry{
		Kind:       history.KindGenerate,
		Input:      description,
		Output:     result.Query,
		Score:      result.PerformanceScore,
		Method:     result.Method,
		Confidence: result.Confidence,
	})

	if cmd.Bool("quiet") {
		fmt.Println(result.Query)

		return nil
	}

	fmt.Println(result.Query)
	fmt.Println()
	fmt.Printf("Status:     %s\n", result.Status)
	fmt.Printf("Method:     %s\n", result.Method)
	fmt.Printf("Confidence: %.2f\n", result.Confidence)
	fmt.Printf("Score:      %d/100\n", result.PerformanceScore)

	if len(result.ValidationErrors) > 0 {
		fmt.Println("\nValidation errors:")

		for _, e := range result.ValidationErrors {
			fmt.Printf("  - %s\n", e)
		}
	}

	if len(result.OptimizationSuggestions) > 0 {
		fmt.Println("\nSuggestions:")

		for _, sug := range result.OptimizationSuggestions {
			fmt.Printf("  - %s\n", sug)
		}
	}

	return nil
}
