package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/nrcap/internal/config"
)

//go:embed templates/nrcap.yaml
var configTemplate embed.FS

// templatePath is the template's path inside configTemplate.
const templatePath = "templates/nrcap.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new nrcap scenario file",
		Long: `Initialize creates a new .nrcap.yaml scenario file in the current directory.

The generated file includes:
- Default radio and traffic parameters shared by all scenarios
- Two example scenarios
- Documentation for every parameter

Examples:
  # Create .nrcap.yaml in current directory
  nrcap init

  # Create the file at a specific path
  nrcap init -o planning/city.yaml

  # Force overwrite existing file
  nrcap init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the scenario file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing scenario file")

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
			return fmt.Errorf("scenario file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read scenario template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created scenario file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to describe your deployment:")
	fmt.Fprintln(out, "  - Area and subscriber density per scenario")
	fmt.Fprintln(out, "  - Busy-hour traffic and traffic mix")
	fmt.Fprintln(out, "  - FR1/FR2 bandwidth, spectral efficiency and MIMO gain")
	fmt.Fprintf(out, "\nThen run: nrcap dimension -c %s\n", outputPath)

	return nil
}
