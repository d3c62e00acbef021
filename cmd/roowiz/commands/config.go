package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rooforge/roowiz/internal/errors"
	"github.com/rooforge/roowiz/internal/translate"
)

var configShowFormat string

func init() {
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "yaml",
		"output format: yaml, toml, json")
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage roowiz configuration",
	Long: `Manage roowiz configuration stored in ~/.config/roowiz/config.yaml.

Without a subcommand, shows the effective configuration.`,
	Example: `  # Show the effective configuration
  roowiz config show

  See Also: roowiz init`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after merging defaults, the config
file, environment variables, and flags.`,
	Example: `  # Show as YAML
  roowiz config show

  # Show as TOML or JSON
  roowiz config show --format toml
  roowiz config show --format json`,
	RunE: runConfigShow,
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	return runConfigShowWithWriter(os.Stdout)
}

func runConfigShowWithWriter(w io.Writer) error {
	data, err := yaml.Marshal(effectiveOptions())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	switch configShowFormat {
	case "", "yaml":
		// data is already YAML
	case "toml":
		data, err = translate.YAMLToTOML(data)
		if err != nil {
			return errors.Wrap(err, "converting to TOML")
		}
	case "json":
		data, err = translate.YAMLToJSON(data)
		if err != nil {
			return errors.Wrap(err, "converting to JSON")
		}
	default:
		return errors.Newf("unknown format %q (valid: yaml, toml, json)", configShowFormat)
	}

	fmt.Fprint(w, string(data))
	return nil
}
