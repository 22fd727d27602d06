// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/powerfooI/rftp/internal/shell"
)

// shellCmd opens the interactive REPL.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open an interactive FTP session",
	Long: `Open an interactive FTP session.

The shell reads one command per line, prompts with '<== ', and prints
results prefixed with '==> '. Failures print with an '[Error]' prefix and
the session continues.

Supported commands:
  cd ls mv upload download syst pwd rmdir mkdir quit set-pasv type

'debug' toggles raw passthrough mode, in which every line is forwarded
verbatim as an FTP command and the raw response printed.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	sess, _, err := connectSession()
	if err != nil {
		return err
	}
	defer closeSession(cmd.ErrOrStderr(), sess)

	return shell.New(sess, os.Stdin, cmd.OutOrStdout()).Run()
}
