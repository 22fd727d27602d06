// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/powerfooI/rftp/internal/issue"
)

// The small one-shot verbs share a shape: connect, run one protocol
// command, print the outcome.

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a remote directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := connectSession()
		if err != nil {
			return err
		}
		defer closeSession(cmd.ErrOrStderr(), sess)

		if err := sess.MakeDir(args[0]); err != nil {
			return issue.WrapWithContext(err, "create directory", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓ created ")+PathStyle.Render(args[0]))
		return nil
	},
}

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <path>",
	Short: "Remove a remote directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := connectSession()
		if err != nil {
			return err
		}
		defer closeSession(cmd.ErrOrStderr(), sess)

		if err := sess.RemoveDir(args[0]); err != nil {
			return issue.NewErrorContext().
				WithOperation("remove directory").
				WithResource(args[0]).
				WithSuggestion("Most servers only remove empty directories").
				Wrap(err).
				BuildError()
		}
		fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓ removed ")+PathStyle.Render(args[0]))
		return nil
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <from> <to>",
	Short: "Rename a remote file or directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := connectSession()
		if err != nil {
			return err
		}
		defer closeSession(cmd.ErrOrStderr(), sess)

		if err := sess.Rename(args[0], args[1]); err != nil {
			return issue.WrapWithContext(err, "rename", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s\n",
			SuccessStyle.Render("✓ renamed"), PathStyle.Render(args[0]), PathStyle.Render(args[1]))
		return nil
	},
}

var pwdCmd = &cobra.Command{
	Use:   "pwd",
	Short: "Print the remote working directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := connectSession()
		if err != nil {
			return err
		}
		defer closeSession(cmd.ErrOrStderr(), sess)

		dir, err := sess.CurrentDir()
		if err != nil {
			return issue.WrapWithOperation(err, "print working directory")
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

var systCmd = &cobra.Command{
	Use:   "syst",
	Short: "Print the server's system type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := connectSession()
		if err != nil {
			return err
		}
		defer closeSession(cmd.ErrOrStderr(), sess)

		sys, err := sess.Syst()
		if err != nil {
			return issue.WrapWithOperation(err, "query system type")
		}
		fmt.Fprintln(cmd.OutOrStdout(), sys)
		return nil
	},
}
