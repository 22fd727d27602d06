// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/powerfooI/rftp/internal/config"
)

// seqExec is a scripted shell.Executor for the check sequence.
type seqExec struct {
	calls []string

	mkdirErr error
	cdErr    error
}

func (f *seqExec) record(call string) { f.calls = append(f.calls, call) }

func (f *seqExec) Addr() string { return "ftp.example.com:21" }

func (f *seqExec) ChangeDir(path string) error {
	f.record("cd " + path)
	return f.cdErr
}

func (f *seqExec) CurrentDir() (string, error) {
	f.record("pwd")
	return "/", nil
}

func (f *seqExec) List(path string) ([]string, error) {
	f.record("ls")
	return []string{"-rw-r--r-- 1 ftp ftp 10 Jan  1 00:00 test.txt"}, nil
}

func (f *seqExec) Rename(from, to string) error { f.record("mv"); return nil }

func (f *seqExec) MakeDir(path string) error {
	f.record("mkdir " + path)
	return f.mkdirErr
}

func (f *seqExec) RemoveDir(path string) error {
	f.record("rmdir " + path)
	return nil
}

func (f *seqExec) Upload(localPath, remotePath string) error { f.record("upload"); return nil }

func (f *seqExec) Download(remotePath, localPath string, abortAfter time.Duration) error {
	f.record("download " + remotePath)
	return nil
}

func (f *seqExec) Syst() (string, error) { f.record("syst"); return "UNIX", nil }

func (f *seqExec) SetType(mode config.TransferMode) error { f.record("type"); return nil }

func (f *seqExec) TogglePassive() (bool, error) { f.record("set-pasv"); return false, nil }

func (f *seqExec) Raw(line string) (string, error) { f.record("raw"); return "200 OK", nil }

func (f *seqExec) Quit() error { f.record("quit"); return nil }

func TestRunCheckSequence_OrderedSteps(t *testing.T) {
	t.Parallel()

	exec := &seqExec{}
	var out strings.Builder
	if err := runCheckSequence(exec, &out, "scratch", "test.txt"); err != nil {
		t.Fatalf("check sequence failed: %v", err)
	}

	want := []string{
		"pwd",
		"mkdir scratch",
		"cd scratch",
		"pwd",
		"cd ..",
		"rmdir scratch",
		"download test.txt",
		"ls",
	}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
	for i := range want {
		if exec.calls[i] != want[i] {
			t.Errorf("step %d = %q, want %q", i, exec.calls[i], want[i])
		}
	}

	if !strings.Contains(out.String(), "all checks passed") {
		t.Errorf("success summary missing, got:\n%s", out.String())
	}
}

func TestRunCheckSequence_SkipsDownloadWithoutFlag(t *testing.T) {
	t.Parallel()

	exec := &seqExec{}
	var out strings.Builder
	if err := runCheckSequence(exec, &out, "scratch", ""); err != nil {
		t.Fatal(err)
	}
	for _, call := range exec.calls {
		if strings.HasPrefix(call, "download") {
			t.Errorf("download should be skipped, calls = %v", exec.calls)
		}
	}
}

func TestRunCheckSequence_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	exec := &seqExec{mkdirErr: errors.New("550 permission denied")}
	var out strings.Builder
	err := runCheckSequence(exec, &out, "scratch", "")
	if err == nil {
		t.Fatal("sequence should fail when mkdir fails")
	}
	if !strings.Contains(err.Error(), "550 permission denied") {
		t.Errorf("error should carry the cause, got: %v", err)
	}

	last := exec.calls[len(exec.calls)-1]
	if last != "mkdir scratch" {
		t.Errorf("sequence should stop at the failed step, calls = %v", exec.calls)
	}
	if !strings.Contains(out.String(), "✗") {
		t.Errorf("failed step should be marked, got:\n%s", out.String())
	}
}
