package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kyleking/sql-advisor/internal/config"
	"github.com/kyleking/sql-advisor/internal/errors"
)

func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:        "config",
		Usage:       "Display the active configuration",
		Description: `Show the current active configuration including all settings from file, environment variables, and command-line flags.`,
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the configuration as JSON",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "write the active configuration to the config file",
			},
		}, commonFlags()...),
		Action: runConfig,
	}
}

func runConfig(_ context.Context, cmd *cli.Command) error {
	cfg, err := setupConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("save") {
		if err := config.SaveConfig(cfg); err != nil {
			return errors.Wrap(err, errors.ErrTypeFileSystem, "failed to save configuration")
		}

		fmt.Println("Configuration saved")
	}

	if cmd.Bool("json") {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}

		fmt.Println(string(data))

		return nil
	}

	fmt.Println("====================")
	fmt.Println("Active Configuration:")

	fmt.Println("\nLLM:")

	if cfg.LLM.Provider == "" {
		fmt.Println("  Provider: (none, rule-based fallback only)")
	} else {
		fmt.Printf("  Provider: %s\n", cfg.LLM.Provider)
		fmt.Printf("  Model: %s\n", cfg.LLM.Model)

		if cfg.LLM.BaseURL != "" {
			fmt.Printf("  Base URL: %s\n", cfg.LLM.BaseURL)
		}

		if cfg.LLM.APIKey != "" {
			fmt.Println("  API Key: (set)")
		}
	}

	fmt.Println("\nDatabase:")
	fmt.Printf("  Path: %s\n", cfg.Database.Path)
	fmt.Printf("  Enabled: %t\n", cfg.Database.Enabled)

	fmt.Println("\nLogging:")
	fmt.Printf("  Level: %s\n", cfg.Logging.Level)
	fmt.Printf("  Format: %s\n", cfg.Logging.Format)
	fmt.Printf("  Output: %s\n", cfg.Logging.Output)

	if cfg.Logging.Output == "file" {
		fmt.Printf("  File: %s\n", cfg.Logging.File)
	}

	fmt.Println("\nPaths:")
	fmt.Printf("  Config directory: %s\n", config.GetConfigDir())

	return nil
}
