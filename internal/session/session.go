// SPDX-License-Identifier: MPL-2.0

package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gonzalop/ftp"

	"github.com/powerfooI/rftp/internal/config"
	"github.com/powerfooI/rftp/internal/textenc"
)

var (
	// ErrNotConnected is returned when an operation requires an open
	// connection and there is none.
	ErrNotConnected = errors.New("not connected")
	// ErrEmptyCommand is returned by Raw for a blank line.
	ErrEmptyCommand = errors.New("empty command")
)

type (
	// Conn is the slice of the FTP client the session uses. *ftp.Client
	// satisfies it; tests inject fakes.
	Conn interface {
		Login(username, password string) error
		Quit() error
		ChangeDir(path string) error
		CurrentDir() (string, error)
		List(path string) ([]*ftp.Entry, error)
		Rename(from, to string) error
		MakeDir(path string) error
		RemoveDir(path string) error
		Retrieve(remotePath string, w io.Writer) error
		Store(remotePath string, r io.Reader) error
		Syst() (string, error)
		Type(transferType string) error
		Quote(command string, args ...string) (*ftp.Response, error)
		Abort() error
	}

	// DialParams is everything a dialer needs to open a control connection.
	DialParams struct {
		Addr    string
		Timeout time.Duration
		// Active requests active-mode (PORT) data connections instead of
		// passive (PASV/EPSV).
		Active bool
		Logger *slog.Logger
	}

	// DialFunc opens a connection. The default dials with gonzalop/ftp.
	DialFunc func(p DialParams) (Conn, error)

	// Option configures a Session.
	Option func(*Session)

	// Session is one logical FTP session: connection parameters, the
	// passive/active flag, the transfer type, and the live connection.
	//
	// The underlying library fixes active vs passive mode at dial time, so
	// SetPassive re-dials and re-authenticates when the flag changes while
	// connected. That mirrors what a per-transfer toggle would observe on
	// the wire, at the cost of one reconnect per flip.
	Session struct {
		cfg     *config.Config
		logger  *slog.Logger
		dial    DialFunc
		decoder *textenc.Decoder

		conn         Conn
		passive      bool
		transferType config.TransferMode
	}
)

// WithDialFunc overrides how the session opens connections. Used by tests.
func WithDialFunc(dial DialFunc) Option {
	return func(s *Session) { s.dial = dial }
}

// WithLogger attaches a logger handed down to the FTP library for
// protocol-level debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithDecoder sets the listing/path decoder for servers that do not speak
// UTF-8.
func WithDecoder(dec *textenc.Decoder) Option {
	return func(s *Session) { s.decoder = dec }
}

// New creates a Session from cfg. The session starts disconnected; call
// Connect before issuing commands.
func New(cfg *config.Config, opts ...Option) *Session {
	s := &Session{
		cfg:          cfg,
		dial:         defaultDial,
		passive:      cfg.Passive,
		transferType: cfg.TransferType,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.decoder == nil {
		s.decoder, _ = textenc.Lookup("")
	}
	return s
}

func defaultDial(p DialParams) (Conn, error) {
	opts := []ftp.Option{ftp.WithTimeout(p.Timeout)}
	if p.Active {
		opts = append(opts, ftp.WithActiveMode())
	}
	if p.Logger != nil {
		opts = append(opts, ftp.WithLogger(p.Logger))
	}
	return ftp.Dial(p.Addr, opts...)
}

// Connect dials the server and logs in. Reconnecting over an existing
// connection closes the old one first.
func (s *Session) Connect() error {
	if s.conn != nil {
		_ = s.conn.Quit()
		s.conn = nil
	}

	conn, err := s.dial(DialParams{
		Addr:    s.cfg.Addr(),
		Timeout: s.cfg.Timeout.Duration(30 * time.Second),
		Active:  !s.passive,
		Logger:  s.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.cfg.Addr(), err)
	}

	if err := conn.Login(s.cfg.User, s.cfg.Password); err != nil {
		_ = conn.Quit()
		return fmt.Errorf("failed to log in as %s: %w", s.cfg.User, err)
	}

	if s.transferType != "" {
		if err := conn.Type(string(s.transferType)); err != nil {
			_ = conn.Quit()
			return fmt.Errorf("failed to set transfer type %s: %w", s.transferType, err)
		}
	}

	s.conn = conn
	return nil
}

// Connected reports whether the session has a live connection.
func (s *Session) Connected() bool { return s.conn != nil }

// Addr returns the configured host:port.
func (s *Session) Addr() string { return s.cfg.Addr() }

// Passive reports the current data-connection mode.
func (s *Session) Passive() bool { return s.passive }

// SetPassive switches between passive and active data connections.
// Switching while connected re-dials in the new mode.
func (s *Session) SetPassive(passive bool) error {
	if s.passive == passive {
		return nil
	}
	s.passive = passive
	if s.conn == nil {
		return nil
	}
	return s.Connect()
}

// TogglePassive flips the passive flag and returns the new value.
func (s *Session) TogglePassive() (bool, error) {
	if err := s.SetPassive(!s.passive); err != nil {
		return s.passive, err
	}
	return s.passive, nil
}

func (s *Session) active() (Conn, error) {
	if s.conn == nil {
		return nil, ErrNotConnected
	}
	return s.conn, nil
}

// ChangeDir changes the remote working directory.
func (s *Session) ChangeDir(path string) error {
	conn, err := s.active()
	if err != nil {
		return err
	}
	return conn.ChangeDir(path)
}

// CurrentDir returns the remote working directory.
func (s *Session) CurrentDir() (string, error) {
	conn, err := s.active()
	if err != nil {
		return "", err
	}
	dir, err := conn.CurrentDir()
	if err != nil {
		return "", err
	}
	decoded, _ := s.decoder.Decode(dir)
	return decoded, nil
}

// List returns the raw listing lines for path ("" lists the current
// directory), decoded to UTF-8 when an encoding is configured.
func (s *Session) List(path string) ([]string, error) {
	conn, err := s.active()
	if err != nil {
		return nil, err
	}
	entries, err := conn.List(path)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := e.Raw
		if line == "" {
			line = e.Name
		}
		lines = append(lines, line)
	}
	return s.decoder.DecodeLines(lines), nil
}

// Rename renames a remote file or directory (RNFR/RNTO).
func (s *Session) Rename(from, to string) error {
	conn, err := s.active()
	if err != nil {
		return err
	}
	return conn.Rename(from, to)
}

// MakeDir creates a remote directory.
func (s *Session) MakeDir(path string) error {
	conn, err := s.active()
	if err != nil {
		return err
	}
	return conn.MakeDir(path)
}

// RemoveDir removes a remote directory.
func (s *Session) RemoveDir(path string) error {
	conn, err := s.active()
	if err != nil {
		return err
	}
	return conn.RemoveDir(path)
}

// Syst returns the server's system type.
func (s *Session) Syst() (string, error) {
	conn, err := s.active()
	if err != nil {
		return "", err
	}
	return conn.Syst()
}

// SetType sets the transfer type ("I" or "A") for subsequent transfers.
func (s *Session) SetType(mode config.TransferMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	conn, err := s.active()
	if err != nil {
		return err
	}
	if err := conn.Type(string(mode)); err != nil {
		return err
	}
	s.transferType = mode
	return nil
}

// Upload stores localPath on the server as remotePath. An empty
// remotePath stores under the local base name.
func (s *Session) Upload(localPath, remotePath string) error {
	conn, err := s.active()
	if err != nil {
		return err
	}
	if remotePath == "" {
		remotePath = filepath.Base(localPath)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer f.Close()

	return conn.Store(remotePath, f)
}

// Download retrieves remotePath into localPath. An empty localPath writes
// under the remote base name in the current directory. A positive
// abortAfter arms a timer that sends ABOR mid-transfer, cancelling the
// download server-side.
func (s *Session) Download(remotePath, localPath string, abortAfter time.Duration) error {
	conn, err := s.active()
	if err != nil {
		return err
	}
	if localPath == "" {
		localPath = filepath.Base(remotePath)
	}

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file: %w", err)
	}

	if abortAfter > 0 {
		timer := time.AfterFunc(abortAfter, func() { _ = conn.Abort() })
		defer timer.Stop()
	}

	if err := conn.Retrieve(remotePath, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Raw forwards a line verbatim as an FTP command and returns the rendered
// response. The first field is the command, the rest are arguments.
func (s *Session) Raw(line string) (string, error) {
	conn, err := s.active()
	if err != nil {
		return "", err
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", ErrEmptyCommand
	}

	resp, err := conn.Quote(fields[0], fields[1:]...)
	if err != nil {
		return "", err
	}
	if len(resp.Lines) > 1 {
		return strings.Join(resp.Lines, "\n"), nil
	}
	return fmt.Sprintf("%d %s", resp.Code, resp.Message), nil
}

// Quit closes the connection politely. Safe to call when disconnected.
func (s *Session) Quit() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Quit()
	s.conn = nil
	return err
}
