// SPDX-License-Identifier: MPL-2.0

// Package cli contains all CLI commands for rftp.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/powerfooI/rftp/internal/config"
	"github.com/powerfooI/rftp/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// Connection flags, applied over the config file when set.
	flagHost     string
	flagPort     int
	flagUser     string
	flagPassword string
	flagPassive  bool
	flagTimeout  string
	flagEncoding string

	// verbose enables protocol-level debug logging.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "rftp",
		Short: "A small FTP client",
		Long: TitleStyle.Render("rftp") + SubtitleStyle.Render(" - a small FTP client") + `

rftp talks to any RFC 959 FTP server, either interactively through a
shell or as one-shot commands suitable for scripts.

` + SubtitleStyle.Render("Examples:") + `
  rftp shell --host ftp.gnu.org              Open an interactive session
  rftp ls /gnu                               List a remote directory
  rftp get test.txt --host 127.0.0.1         Download a file
  rftp put notes.txt                         Upload a file
  rftp check                                 Run a connectivity smoke test
  rftp config init                           Write a default config file

Connection settings come from flags, RFTP_* environment variables, and
` + PathStyle.Render("~/.config/rftp/config.toml") + `, in that order of precedence.`,
	}
)

func init() {
	// Global connection flags
	rootCmd.PersistentFlags().StringVarP(&flagHost, "host", "H", config.DefaultHost, "FTP server host")
	rootCmd.PersistentFlags().IntVarP(&flagPort, "port", "P", config.DefaultPort, "FTP control port")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", config.DefaultUser, "login username")
	rootCmd.PersistentFlags().StringVarP(&flagPassword, "password", "p", config.DefaultPassword, "login password")
	rootCmd.PersistentFlags().BoolVar(&flagPassive, "passive", true, "use passive (PASV) data connections; --passive=false uses active (PORT)")
	rootCmd.PersistentFlags().StringVar(&flagTimeout, "timeout", string(config.DefaultTimeout), "dial and command timeout (e.g. 30s, 2m)")
	rootCmd.PersistentFlags().StringVar(&flagEncoding, "encoding", "", "server listing encoding when not UTF-8 (e.g. latin1, big5)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable protocol-level debug output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/rftp/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(rmdirCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(pwdCmd)
	rootCmd.AddCommand(systCmd)
	rootCmd.AddCommand(rawCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(docsCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// errorHandler renders RunE failures. It replaces fang's default printer
// so actionable context (suggestions, the --verbose cause chain) reaches
// the user instead of the bare Error() string.
func errorHandler(w io.Writer, _ fang.Styles, err error) {
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, verbose))
}

// loadConfig merges the config file, environment, and any connection flags
// the user set on the command line (flags win).
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		config.SetConfigFileOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithSuggestion("Check the config file syntax with 'rftp config path'").
			WithSuggestion("Run 'rftp config init' to write a fresh default config").
			Wrap(err).
			BuildError()
	}

	flags := rootCmd.PersistentFlags()
	if flags.Changed("host") {
		cfg.Host = flagHost
	}
	if flags.Changed("port") {
		cfg.Port = flagPort
	}
	if flags.Changed("user") {
		cfg.User = flagUser
	}
	if flags.Changed("password") {
		cfg.Password = flagPassword
	}
	if flags.Changed("passive") {
		cfg.Passive = flagPassive
	}
	if flags.Changed("timeout") {
		cfg.Timeout = config.TimeoutSpec(flagTimeout)
	}
	if flags.Changed("encoding") {
		cfg.Encoding = flagEncoding
	}
	if verbose {
		cfg.UI.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// formatErrorForDisplay renders err for the terminal, expanding actionable
// context (suggestions, verbose cause chain) when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var actionable *issue.ActionableError
	if errors.As(err, &actionable) {
		return actionable.Format(verbose)
	}
	return err.Error()
}
