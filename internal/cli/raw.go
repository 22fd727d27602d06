// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/powerfooI/rftp/internal/issue"
)

// rawCmd forwards a command line verbatim over the control connection.
var rawCmd = &cobra.Command{
	Use:   "raw <command> [args...]",
	Short: "Send a raw FTP command",
	Long: `Send a raw FTP command over the control connection and print the
server's response. Useful for debugging and for commands rftp has no
verb for:

  rftp raw SITE CHMOD 755 run.sh
  rftp raw FEAT`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRaw,
}

func runRaw(cmd *cobra.Command, args []string) error {
	sess, _, err := connectSession()
	if err != nil {
		return err
	}
	defer closeSession(cmd.ErrOrStderr(), sess)

	line := strings.Join(args, " ")
	out, err := sess.Raw(line)
	if err != nil {
		return issue.WrapWithContext(err, "send raw command", line)
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
