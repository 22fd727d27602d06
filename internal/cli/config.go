// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/powerfooI/rftp/internal/config"
	"github.com/powerfooI/rftp/internal/issue"
)

// configCmd manages the rftp configuration file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rftp configuration",
	Long: `Manage rftp configuration.

Configuration is stored in:
  - Linux: ~/.config/rftp/config.toml
  - macOS: ~/Library/Application Support/rftp/config.toml
  - Windows: %APPDATA%\rftp\config.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigFilePath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
}

// showConfig prints the merged configuration (file, environment, flags)
// as TOML. The password is masked.
func showConfig(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	display := *cfg
	if display.Password != "" {
		display.Password = "********"
	}

	data, err := toml.Marshal(&display)
	if err != nil {
		return issue.WrapWithOperation(err, "render configuration")
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

// initConfigFile writes the built-in defaults to the config path. Refuses
// to overwrite an existing file.
func initConfigFile(cmd *cobra.Command) error {
	path, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return issue.NewErrorContext().
			WithOperation("create config file").
			WithResource(path).
			WithSuggestion("Edit the existing file instead, or remove it first").
			Wrap(os.ErrExist).
			BuildError()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return issue.WrapWithContext(err, "create config directory", filepath.Dir(path))
	}

	data, err := toml.Marshal(config.DefaultConfig())
	if err != nil {
		return issue.WrapWithOperation(err, "render default configuration")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return issue.WrapWithContext(err, "write config file", path)
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓ wrote ")+PathStyle.Render(path))
	return nil
}
