package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/tmenu/internal/config"
)

func newConfigCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get or set configuration values",
		Long: `Get or set tmenu configuration values.

Without arguments, lists all configuration keys.
With one argument, shows the value of that key.
With two arguments, sets the key to the value.

Configuration is stored in ~/.config/tmenu/config.yaml (XDG compliant).

Keys are in the format: section.key
Sections: menu, match, history, log

Examples:
  tmenu config                         # List all keys
  tmenu config match.case              # Get match.case value
  tmenu config match.case insensitive  # Match case-insensitively by default
  tmenu config history.backend sqlite`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(cmd, o, args)
		},
	}
}

func runConfig(cmd *cobra.Command, o *options, args []string) error {
	cfg, paths, err := o.loadConfig()
	if err != nil {
		return err
	}

	switch len(args) {
	case 0:
		return listConfig(cmd, cfg, o.path(paths))
	case 1:
		return getConfig(cmd, cfg, args[0])
	default:
		return setConfig(cmd, cfg, o.path(paths), args[0], args[1])
	}
}

func listConfig(cmd *cobra.Command, cfg *config.Config, path string) error {
	out := cmd.OutOrStdout()
	c := colorsFor(out)

	fmt.Fprintf(out, "%sConfiguration Keys%s\n", c.bold, c.reset)
	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintln(out)

	var failedKeys []string
	for _, key := range config.ListKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			failedKeys = append(failedKeys, key)
			continue
		}

		displayValue := fmt.Sprintf("%q", value)
		if value == "" {
			displayValue = c.dim + "(not set)" + c.reset
		}

		fmt.Fprintf(out, "  %s%s%s = %s\n", c.cyan, key, c.reset, displayValue)
	}

	if len(failedKeys) > 0 {
		fmt.Fprintf(out, "\n%sWarning:%s Failed to retrieve keys: %s\n", c.yellow, c.reset, strings.Join(failedKeys, ", "))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Config file: %s\n", path)
	return nil
}

func getConfig(cmd *cobra.Command, cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if value == "" {
		c := colorsFor(out)
		fmt.Fprintf(out, "%s(not set)%s\n", c.dim, c.reset)
	} else {
		fmt.Fprintln(out, value)
	}
	return nil
}

func setConfig(cmd *cobra.Command, cfg *config.Config, path, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.SaveToFile(path); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	c := colorsFor(out)
	fmt.Fprintf(out, "%s%s%s = %s\n", c.cyan, key, c.reset, value)
	fmt.Fprintf(out, "Saved to: %s\n", path)
	return nil
}
