// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/powerfooI/rftp/internal/issue"
)

// lsCmd lists a remote directory.
var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a remote directory",
	Long: `List a remote directory.

Prints the server's raw LIST lines. Without a path the server's current
directory is listed. Use --encoding when the server sends listings in a
legacy code page.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func runLs(cmd *cobra.Command, args []string) error {
	sess, _, err := connectSession()
	if err != nil {
		return err
	}
	defer closeSession(cmd.ErrOrStderr(), sess)

	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	lines, err := sess.List(path)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("list directory").
			WithResource(path).
			WithSuggestion("Check that the remote path exists").
			Wrap(err).
			BuildError()
	}

	for _, line := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
