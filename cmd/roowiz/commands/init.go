package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rooforge/roowiz/internal/config"
	"github.com/rooforge/roowiz/internal/errors"
	"github.com/rooforge/roowiz/internal/paths"
	"github.com/rooforge/roowiz/pkg/fileutil"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false,
		"overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the roowiz configuration file",
	Long: `Create ~/.config/roowiz/config.yaml populated with default values.

The file documents every recognized option; edit it or override
individual options with ROOWIZ_* environment variables.`,
	Example: `  # Create the config file
  roowiz init

  # Overwrite an existing file
  roowiz init --force

  See Also: roowiz config show`,
	RunE: runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath := filepath.Join(paths.AppConfigDir(), "config.yaml")

	if !initForce {
		if _, err := os.Stat(configPath); err == nil {
			return errors.NewUserError(
				errors.Newf("config file already exists at %s", configPath),
				"Use --force to overwrite")
		}
	}

	if err := paths.EnsureDir(paths.AppConfigDir(), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	if err := fileutil.AtomicWriteYAML(configPath, config.Default()); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Printf("%s Created %s\n", color.GreenString("✓"), configPath)
	return nil
}
