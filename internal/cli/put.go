// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/powerfooI/rftp/internal/issue"
)

// putCmd uploads a single local file.
var putCmd = &cobra.Command{
	Use:   "put <local> [remote]",
	Short: "Upload a file to the server",
	Long: `Upload a file to the server.

Without a remote path the file is stored under its local base name in the
server's current directory.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPut,
}

func runPut(cmd *cobra.Command, args []string) error {
	sess, _, err := connectSession()
	if err != nil {
		return err
	}
	defer closeSession(cmd.ErrOrStderr(), sess)

	local := args[0]
	remote := ""
	if len(args) == 2 {
		remote = args[1]
	}

	if err := sess.Upload(local, remote); err != nil {
		return issue.NewErrorContext().
			WithOperation("upload file").
			WithResource(local).
			WithSuggestion("Check that the local file exists and is readable").
			WithSuggestion("Check write permissions in the remote directory").
			Wrap(err).
			BuildError()
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓ uploaded ")+PathStyle.Render(local))
	return nil
}
