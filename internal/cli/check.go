// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/powerfooI/rftp/internal/issue"
	"github.com/powerfooI/rftp/internal/shell"
)

var (
	checkDirName  string
	checkDownload string
)

// checkCmd runs a fixed connectivity smoke test: directory round-trip,
// listing, and an optional download.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a connectivity smoke test against the server",
	Long: `Run a fixed sequence of operations against the server and report each
step: print the working directory, create a scratch directory, enter and
leave it, remove it, optionally download a file, and list the current
directory.

The scratch directory must not already exist; it is removed on success.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkDirName, "dir", "rftp-check", "scratch directory name")
	checkCmd.Flags().StringVar(&checkDownload, "download", "", "also download this remote file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	sess, _, err := connectSession()
	if err != nil {
		return err
	}
	defer closeSession(cmd.ErrOrStderr(), sess)

	return runCheckSequence(sess, cmd.OutOrStdout(), checkDirName, checkDownload)
}

// runCheckSequence executes the smoke-test steps in order, stopping at the
// first failure.
func runCheckSequence(exec shell.Executor, out io.Writer, dirName, downloadFile string) error {
	step := func(name, detail string) {
		if detail != "" {
			fmt.Fprintf(out, "%s %s %s\n", SuccessStyle.Render("✓"), name, PathStyle.Render(detail))
			return
		}
		fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("✓"), name)
	}
	fail := func(name string, err error) error {
		fmt.Fprintf(out, "%s %s\n", ErrorStyle.Render("✗"), name)
		return issue.WrapWithOperation(err, name)
	}

	dir, err := exec.CurrentDir()
	if err != nil {
		return fail("print working directory", err)
	}
	step("working directory", dir)

	if err := exec.MakeDir(dirName); err != nil {
		return fail("create scratch directory", err)
	}
	step("created", dirName)

	if err := exec.ChangeDir(dirName); err != nil {
		return fail("enter scratch directory", err)
	}
	inside, err := exec.CurrentDir()
	if err != nil {
		return fail("print working directory", err)
	}
	step("entered", inside)

	if err := exec.ChangeDir(".."); err != nil {
		return fail("leave scratch directory", err)
	}
	step("left", dirName)

	if err := exec.RemoveDir(dirName); err != nil {
		return fail("remove scratch directory", err)
	}
	step("removed", dirName)

	if downloadFile != "" {
		if err := exec.Download(downloadFile, "", 0); err != nil {
			return fail("download "+downloadFile, err)
		}
		step("downloaded", downloadFile)
	}

	lines, err := exec.List("")
	if err != nil {
		return fail("list directory", err)
	}
	step("listing", fmt.Sprintf("%d entries", len(lines)))
	for _, line := range lines {
		fmt.Fprintf(out, "  %s\n", line)
	}

	fmt.Fprintln(out, SuccessStyle.Render("all checks passed"))
	return nil
}
