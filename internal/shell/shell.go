// SPDX-License-Identifier: MPL-2.0

// Package shell implements the interactive rftp prompt: a line-oriented
// REPL that splits input into a verb and one argument string, dispatches
// known verbs to the session, and prints whatever comes back. Failures
// are printed with an "[Error]" prefix and the loop keeps going.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/powerfooI/rftp/internal/config"
)

// Verbs lists the supported shell verbs, in help order.
var Verbs = []string{
	"cd", "ls", "mv", "upload", "download", "syst",
	"pwd", "rmdir", "mkdir", "quit", "set-pasv", "type",
}

// errQuit is the sentinel a handler returns to end the loop.
var errQuit = errors.New("quit")

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
)

type (
	// Executor is what the shell needs from a session. *session.Session
	// satisfies it; tests inject fakes.
	Executor interface {
		Addr() string
		ChangeDir(path string) error
		CurrentDir() (string, error)
		List(path string) ([]string, error)
		Rename(from, to string) error
		MakeDir(path string) error
		RemoveDir(path string) error
		Upload(localPath, remotePath string) error
		Download(remotePath, localPath string, abortAfter time.Duration) error
		Syst() (string, error)
		SetType(mode config.TransferMode) error
		TogglePassive() (bool, error)
		Raw(line string) (string, error)
		Quit() error
	}

	// Shell is the interactive REPL. One instance runs one loop.
	Shell struct {
		exec Executor
		in   io.Reader
		out  io.Writer

		// raw forwards every input line verbatim as an FTP command.
		// Toggled by the "debug" verb.
		raw bool

		handlers map[string]func(arg string) error
	}
)

// New builds a Shell reading from in and writing to out.
func New(exec Executor, in io.Reader, out io.Writer) *Shell {
	s := &Shell{exec: exec, in: in, out: out}
	s.handlers = map[string]func(string) error{
		"cd":       s.cmdCd,
		"ls":       s.cmdLs,
		"mv":       s.cmdMv,
		"upload":   s.cmdUpload,
		"download": s.cmdDownload,
		"syst":     s.cmdSyst,
		"pwd":      s.cmdPwd,
		"rmdir":    s.cmdRmdir,
		"mkdir":    s.cmdMkdir,
		"quit":     s.cmdQuit,
		"set-pasv": s.cmdSetPasv,
		"type":     s.cmdType,
	}
	return s
}

// SplitLine splits an input line on the first whitespace into a verb and
// the remaining argument string.
func SplitLine(line string) (verb, arg string) {
	line = strings.TrimSpace(line)
	verb, arg, _ = strings.Cut(line, " ")
	return verb, strings.TrimSpace(arg)
}

// Run drives the REPL until "quit" or EOF. Errors from individual verbs
// never stop the loop; only a broken input stream does.
func (s *Shell) Run() error {
	s.printf("==> connected to %s", s.exec.Addr())

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, promptStyle.Render("<== "))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			// EOF: leave politely.
			fmt.Fprintln(s.out)
			_ = s.exec.Quit()
			return nil
		}

		if err := s.dispatch(scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				s.printf("==> client quit, thank you for using")
				return nil
			}
			s.printError(err)
		}
	}
}

// dispatch executes one input line.
func (s *Shell) dispatch(line string) error {
	verb, arg := SplitLine(line)
	if verb == "" {
		return nil
	}

	// "debug" flips raw passthrough mode in either direction.
	if verb == "debug" {
		s.raw = !s.raw
		if s.raw {
			s.printf("==> raw passthrough on, lines are sent verbatim ('debug' to leave)")
		} else {
			s.printf("==> raw passthrough off")
		}
		return nil
	}

	if s.raw {
		out, err := s.exec.Raw(strings.TrimSpace(line))
		if err != nil {
			return err
		}
		s.printf("%s", out)
		return nil
	}

	handler, ok := s.handlers[verb]
	if !ok {
		s.printf("==> only the following commands are supported:\n%s", strings.Join(Verbs, ", "))
		return nil
	}
	return handler(arg)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

func (s *Shell) printError(err error) {
	fmt.Fprintf(s.out, "%s %v\n", errorStyle.Render("[Error]"), err)
}

func (s *Shell) cmdCd(arg string) error {
	if err := s.exec.ChangeDir(arg); err != nil {
		return err
	}
	s.printf("==> directory changed")
	return nil
}

func (s *Shell) cmdLs(arg string) error {
	lines, err := s.exec.List(arg)
	if err != nil {
		return err
	}
	for _, line := range lines {
		s.printf("%s", line)
	}
	return nil
}

func (s *Shell) cmdMv(arg string) error {
	fields := strings.Fields(arg)
	if len(fields) < 2 {
		s.printf("==> too few arguments, usage: mv <from> <to>")
		return nil
	}
	if err := s.exec.Rename(fields[0], fields[1]); err != nil {
		return err
	}
	s.printf("==> renamed %s to %s", fields[0], fields[1])
	return nil
}

func (s *Shell) cmdUpload(arg string) error {
	if err := s.exec.Upload(arg, ""); err != nil {
		return err
	}
	s.printf("==> uploaded %s", arg)
	return nil
}

func (s *Shell) cmdDownload(arg string) error {
	if err := s.exec.Download(arg, "", 0); err != nil {
		return err
	}
	s.printf("==> downloaded %s", arg)
	return nil
}

func (s *Shell) cmdSyst(string) error {
	sys, err := s.exec.Syst()
	if err != nil {
		return err
	}
	s.printf("==> %s", sys)
	return nil
}

func (s *Shell) cmdPwd(string) error {
	dir, err := s.exec.CurrentDir()
	if err != nil {
		return err
	}
	s.printf("==> %s", dir)
	return nil
}

func (s *Shell) cmdRmdir(arg string) error {
	if err := s.exec.RemoveDir(arg); err != nil {
		return err
	}
	s.printf("==> removed directory %s", arg)
	return nil
}

func (s *Shell) cmdMkdir(arg string) error {
	if err := s.exec.MakeDir(arg); err != nil {
		return err
	}
	s.printf("==> created directory %s", arg)
	return nil
}

func (s *Shell) cmdQuit(string) error {
	if err := s.exec.Quit(); err != nil {
		// The session is gone either way; report and leave.
		s.printError(err)
	}
	return errQuit
}

func (s *Shell) cmdSetPasv(string) error {
	passive, err := s.exec.TogglePassive()
	if err != nil {
		return err
	}
	if passive {
		s.printf("==> passive mode on")
	} else {
		s.printf("==> passive mode off")
	}
	return nil
}

func (s *Shell) cmdType(arg string) error {
	if arg == "" {
		s.printf("==> usage: type <I|A>")
		return nil
	}
	mode := config.TransferMode(strings.ToUpper(arg))
	if err := s.exec.SetType(mode); err != nil {
		return err
	}
	s.printf("==> transfer type set to %s", mode)
	return nil
}
