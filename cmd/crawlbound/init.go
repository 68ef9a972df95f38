package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/crawlbound.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = ".crawlbound"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new crawlbound configuration file",
		Long: `Initialize creates a new .crawlbound configuration file in the current
directory.

The generated file includes:
- Commented examples for per-host crawl profiles
- Documentation for headers, depth overrides, and URL patterns

Examples:
  # Create .crawlbound in current directory
  crawlbound init

  # Create config file at a specific path
  crawlbound init -o myconfig.yaml

  # Force overwrite existing file
  crawlbound init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/crawlbound.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure per-host settings such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Authentication headers")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Crawl depth per host")
	fmt.Fprintln(cmd.OutOrStdout(), "  - URL patterns to include or exclude")

	return nil
}
