package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kyleking/sql-advisor/internal/errors"
)

func SchemaCommand() *cli.Command {
	flags := schemaFlags()
	flags = append(flags, commonFlags()...)

	return &cli.Command{
		Name:        "schema",
		Usage:       "Parse and display a table schema",
		Description: `Parse CREATE TABLE statements from a DDL file (or the built-in sample) and print the recognized tables and columns. Useful to verify what the analyzer will see.`,
		Flags:       flags,
		Action:      runSchema,
	}
}

func runSchema(_ context.Context, cmd *cli.Command) error {
	if _, err := setupConfig(cmd); err != nil {
		return err
	}

	s, err := loadSchema(cmd)
	if err != nil {
		return err
	}

	if len(s) == 0 {
		if path := cmd.String("schema"); path != "" {
			return errors.Newf(errors.ErrTypeInput, "no CREATE TABLE statements found in %s", path).
				WithSuggestion("Check that the file contains CREATE TABLE statements")
		}

		return errors.New(errors.ErrTypeInput, "no schema provided").
			WithSuggestion("Use --schema with a DDL file or --sample-schema for the built-in example")
	}

	fmt.Printf("Parsed %d table(s)\n\n", len(s))
	fmt.Println(s.Format())

	return nil
}
