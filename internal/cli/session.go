// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"

	"github.com/powerfooI/rftp/internal/config"
	"github.com/powerfooI/rftp/internal/issue"
	"github.com/powerfooI/rftp/internal/session"
	"github.com/powerfooI/rftp/internal/textenc"
)

// exitCodeConnect is the process exit code for connect/login failures, so
// scripts can tell "could not reach the server" from other errors.
const exitCodeConnect = 2

// newLogger builds the protocol logger handed to the FTP library.
// Debug level is only enabled with --verbose; the library logs every
// command/response pair at that level.
func newLogger(verbose bool) *slog.Logger {
	level := charmlog.WarnLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           level,
		ReportTimestamp: false,
	})
	return slog.New(handler)
}

// connectSession resolves the configuration and opens a logged-in session.
// Callers own the session and should defer Quit.
func connectSession() (*session.Session, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	decoder, err := textenc.Lookup(cfg.Encoding)
	if err != nil {
		return nil, nil, issue.NewErrorContext().
			WithOperation("resolve listing encoding").
			WithResource(cfg.Encoding).
			WithSuggestion("Known encodings: utf-8, latin1, windows-1252, big5, cp037, cp1047, cp1140").
			Wrap(err).
			BuildError()
	}

	sess := session.New(cfg,
		session.WithLogger(newLogger(cfg.UI.Verbose)),
		session.WithDecoder(decoder),
	)

	if err := sess.Connect(); err != nil {
		return nil, nil, connectFailure(cfg, err)
	}
	return sess, cfg, nil
}

// connectFailure wraps a dial/login error with actionable context and the
// connect exit code.
func connectFailure(cfg *config.Config, err error) error {
	return &ExitError{
		Code: exitCodeConnect,
		Err: issue.NewErrorContext().
			WithOperation("connect to server").
			WithResource(cfg.Addr()).
			WithSuggestion("Check the --host and --port values").
			WithSuggestion("Verify the username and password").
			WithSuggestion("Try --passive=false if the server rejects PASV").
			Wrap(err).
			BuildError(),
	}
}

// closeSession quits the session, downgrading a failed QUIT to a warning:
// by the time it runs the command's real work is already done.
func closeSession(w io.Writer, q interface{ Quit() error }) {
	if err := q.Quit(); err != nil {
		fmt.Fprintln(w, WarningStyle.Render("Warning:")+" "+formatErrorForDisplay(err, false))
	}
}
