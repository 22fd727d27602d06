// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/powerfooI/rftp/internal/issue"
)

var getAbortAfter time.Duration

// getCmd downloads a single remote file.
var getCmd = &cobra.Command{
	Use:   "get <remote> [local]",
	Short: "Download a file from the server",
	Long: `Download a file from the server.

Without a local path the file is written under its remote base name in
the current directory.

--abort-after cancels the transfer with ABOR after the given delay, which
is mainly useful for exercising a server's abort handling:

  rftp get big.iso --abort-after 2s`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGet,
}

func init() {
	getCmd.Flags().DurationVar(&getAbortAfter, "abort-after", 0, "send ABOR after this delay (0 disables)")
}

func runGet(cmd *cobra.Command, args []string) error {
	sess, _, err := connectSession()
	if err != nil {
		return err
	}
	defer closeSession(cmd.ErrOrStderr(), sess)

	remote := args[0]
	local := ""
	if len(args) == 2 {
		local = args[1]
	}

	if err := sess.Download(remote, local, getAbortAfter); err != nil {
		return issue.NewErrorContext().
			WithOperation("download file").
			WithResource(remote).
			WithSuggestion("Check that the remote file exists with 'rftp ls'").
			WithSuggestion("Check write permissions on the local directory").
			Wrap(err).
			BuildError()
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓ downloaded ")+PathStyle.Render(remote))
	return nil
}
