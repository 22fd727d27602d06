// SPDX-License-Identifier: MPL-2.0

package cli

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed manual.md
var manualMarkdown string

var docsWidth int

// docsCmd renders the built-in manual.
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the rftp manual",
	Args:  cobra.NoArgs,
	RunE:  runDocs,
}

func init() {
	docsCmd.Flags().IntVar(&docsWidth, "width", 0, "word wrap width (0 for no wrap)")
}

func runDocs(cmd *cobra.Command, args []string) error {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if docsWidth > 0 {
		opts = append(opts, glamour.WithWordWrap(docsWidth))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := renderer.Render(manualMarkdown)
	if err != nil {
		return fmt.Errorf("failed to render manual: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
