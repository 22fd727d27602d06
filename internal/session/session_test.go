// SPDX-License-Identifier: MPL-2.0

package session

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gonzalop/ftp"

	"github.com/powerfooI/rftp/internal/config"
	"github.com/powerfooI/rftp/internal/textenc"
)

// fakeConn records calls and plays back scripted results.
type fakeConn struct {
	mu    sync.Mutex
	calls []string

	loginErr    error
	typeErr     error
	listEntries []*ftp.Entry
	listErr     error
	currentDir  string
	systName    string
	quoteResp   *ftp.Response
	quoteErr    error

	retrieveData  string
	retrieveDelay time.Duration
	retrieveErr   error

	aborted chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		currentDir: "/",
		systName:   "UNIX Type: L8",
		aborted:    make(chan struct{}),
	}
}

func (f *fakeConn) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeConn) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeConn) Login(username, password string) error {
	f.record("LOGIN " + username + " " + password)
	return f.loginErr
}

func (f *fakeConn) Quit() error {
	f.record("QUIT")
	return nil
}

func (f *fakeConn) ChangeDir(path string) error {
	f.record("CWD " + path)
	return nil
}

func (f *fakeConn) CurrentDir() (string, error) {
	f.record("PWD")
	return f.currentDir, nil
}

func (f *fakeConn) List(path string) ([]*ftp.Entry, error) {
	f.record("LIST " + path)
	return f.listEntries, f.listErr
}

func (f *fakeConn) Rename(from, to string) error {
	f.record("RENAME " + from + " " + to)
	return nil
}

func (f *fakeConn) MakeDir(path string) error {
	f.record("MKD " + path)
	return nil
}

func (f *fakeConn) RemoveDir(path string) error {
	f.record("RMD " + path)
	return nil
}

func (f *fakeConn) Retrieve(remotePath string, w io.Writer) error {
	f.record("RETR " + remotePath)
	if f.retrieveDelay > 0 {
		select {
		case <-f.aborted:
			return errors.New("transfer aborted")
		case <-time.After(f.retrieveDelay):
		}
	}
	if f.retrieveErr != nil {
		return f.retrieveErr
	}
	_, err := io.WriteString(w, f.retrieveData)
	return err
}

func (f *fakeConn) Store(remotePath string, r io.Reader) error {
	f.record("STOR " + remotePath)
	_, err := io.Copy(io.Discard, r)
	return err
}

func (f *fakeConn) Syst() (string, error) {
	f.record("SYST")
	return f.systName, nil
}

func (f *fakeConn) Type(transferType string) error {
	f.record("TYPE " + transferType)
	return f.typeErr
}

func (f *fakeConn) Quote(command string, args ...string) (*ftp.Response, error) {
	f.record("QUOTE " + strings.Join(append([]string{command}, args...), " "))
	if f.quoteResp != nil {
		return f.quoteResp, f.quoteErr
	}
	return &ftp.Response{Code: 200, Message: "OK"}, f.quoteErr
}

func (f *fakeConn) Abort() error {
	f.record("ABOR")
	close(f.aborted)
	return nil
}

// dialRecorder hands out fakeConns and remembers the params of each dial.
type dialRecorder struct {
	mu     sync.Mutex
	params []DialParams
	conns  []*fakeConn
	err    error
}

func (d *dialRecorder) dial(p DialParams) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	conn := newFakeConn()
	d.params = append(d.params, p)
	d.conns = append(d.conns, conn)
	return conn, nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Host = "ftp.example.com"
	cfg.Port = 2121
	cfg.User = "admin"
	cfg.Password = "123456"
	return cfg
}

func TestSession_Connect_LogsInAndSetsType(t *testing.T) {
	t.Parallel()

	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(rec.dial))

	if s.Connected() {
		t.Fatal("new session should start disconnected")
	}
	if err := s.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if !s.Connected() {
		t.Fatal("Connect should leave the session connected")
	}

	if len(rec.params) != 1 {
		t.Fatalf("expected 1 dial, got %d", len(rec.params))
	}
	p := rec.params[0]
	if p.Addr != "ftp.example.com:2121" {
		t.Errorf("dialed %q, want ftp.example.com:2121", p.Addr)
	}
	if p.Active {
		t.Error("default config is passive; dial should not request active mode")
	}

	calls := rec.conns[0].recorded()
	want := []string{"LOGIN admin 123456", "TYPE I"}
	if len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestSession_Connect_LoginFailureClosesConn(t *testing.T) {
	t.Parallel()

	loginErr := errors.New("530 login incorrect")
	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(func(p DialParams) (Conn, error) {
		conn, _ := rec.dial(p)
		conn.(*fakeConn).loginErr = loginErr
		return conn, nil
	}))

	err := s.Connect()
	if !errors.Is(err, loginErr) {
		t.Fatalf("Connect should surface the login error, got: %v", err)
	}
	if s.Connected() {
		t.Error("failed Connect should leave the session disconnected")
	}

	calls := rec.conns[0].recorded()
	if calls[len(calls)-1] != "QUIT" {
		t.Errorf("failed login should close the connection, calls = %v", calls)
	}
}

func TestSession_OperationsRequireConnection(t *testing.T) {
	t.Parallel()

	s := New(testConfig(), WithDialFunc((&dialRecorder{}).dial))

	if err := s.ChangeDir("/pub"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ChangeDir before Connect = %v, want ErrNotConnected", err)
	}
	if _, err := s.List(""); !errors.Is(err, ErrNotConnected) {
		t.Errorf("List before Connect = %v, want ErrNotConnected", err)
	}
	if _, err := s.Raw("NOOP"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Raw before Connect = %v, want ErrNotConnected", err)
	}
}

func TestSession_TogglePassive_Reconnects(t *testing.T) {
	t.Parallel()

	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(rec.dial))
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}

	passive, err := s.TogglePassive()
	if err != nil {
		t.Fatalf("TogglePassive failed: %v", err)
	}
	if passive {
		t.Error("toggling from passive should yield active (false)")
	}

	if len(rec.params) != 2 {
		t.Fatalf("toggle while connected should re-dial, got %d dials", len(rec.params))
	}
	if !rec.params[1].Active {
		t.Error("second dial should request active mode")
	}

	first := rec.conns[0].recorded()
	if first[len(first)-1] != "QUIT" {
		t.Errorf("old connection should be closed on toggle, calls = %v", first)
	}
}

func TestSession_SetPassive_NoopOnSameValue(t *testing.T) {
	t.Parallel()

	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(rec.dial))
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}

	if err := s.SetPassive(true); err != nil {
		t.Fatalf("SetPassive(same) failed: %v", err)
	}
	if len(rec.params) != 1 {
		t.Errorf("SetPassive with unchanged value should not re-dial, got %d dials", len(rec.params))
	}
}

func TestSession_SetPassive_WhileDisconnectedOnlyRecordsFlag(t *testing.T) {
	t.Parallel()

	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(rec.dial))

	if err := s.SetPassive(false); err != nil {
		t.Fatalf("SetPassive while disconnected failed: %v", err)
	}
	if len(rec.params) != 0 {
		t.Error("SetPassive while disconnected should not dial")
	}
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}
	if !rec.params[0].Active {
		t.Error("Connect after SetPassive(false) should dial in active mode")
	}
}

func TestSession_SetType_ValidatesMode(t *testing.T) {
	t.Parallel()

	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(rec.dial))
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}

	if err := s.SetType("X"); !errors.Is(err, config.ErrInvalidTransferMode) {
		t.Fatalf("SetType(X) = %v, want ErrInvalidTransferMode", err)
	}
	for _, call := range rec.conns[0].recorded() {
		if call == "TYPE X" {
			t.Error("invalid mode must not reach the server")
		}
	}

	if err := s.SetType(config.TransferASCII); err != nil {
		t.Fatalf("SetType(A) failed: %v", err)
	}
	calls := rec.conns[0].recorded()
	if calls[len(calls)-1] != "TYPE A" {
		t.Errorf("SetType(A) should send TYPE A, calls = %v", calls)
	}
}

func TestSession_List_ReturnsRawLines(t *testing.T) {
	t.Parallel()

	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(rec.dial))
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}
	rec.conns[0].listEntries = []*ftp.Entry{
		{Name: "pub", Type: "dir", Raw: "drwxr-xr-x 2 ftp ftp 4096 Jan  1 00:00 pub"},
		{Name: "bare-name", Type: "file"},
	}

	lines, err := s.List("/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("List returned %d lines, want 2", len(lines))
	}
	if lines[0] != "drwxr-xr-x 2 ftp ftp 4096 Jan  1 00:00 pub" {
		t.Errorf("first line should be the raw listing, got %q", lines[0])
	}
	if lines[1] != "bare-name" {
		t.Errorf("entries without a raw line fall back to the name, got %q", lines[1])
	}
}

func TestSession_List_DecodesConfiguredEncoding(t *testing.T) {
	t.Parallel()

	dec, err := textenc.Lookup("latin1")
	if err != nil {
		t.Fatal(err)
	}
	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(rec.dial), WithDecoder(dec))
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}
	rec.conns[0].listEntries = []*ftp.Entry{
		{Name: "r\xe9sum\xe9.txt", Raw: "-rw-r--r-- 1 ftp ftp 10 Jan  1 00:00 r\xe9sum\xe9.txt"},
	}

	lines, err := s.List("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(lines[0], "résumé.txt") {
		t.Errorf("listing should be decoded from latin1, got %q", lines[0])
	}
}

func TestSession_Upload_DefaultsRemoteName(t *testing.T) {
	t.Parallel()

	local := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(local, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(rec.dial))
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}

	if err := s.Upload(local, ""); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	calls := rec.conns[0].recorded()
	if calls[len(calls)-1] != "STOR notes.txt" {
		t.Errorf("empty remote path should store under the base name, calls = %v", calls)
	}
}

func TestSession_Download_WritesLocalFile(t *testing.T) {
	t.Parallel()

	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(rec.dial))
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}
	rec.conns[0].retrieveData = "file contents"

	local := filepath.Join(t.TempDir(), "out.txt")
	if err := s.Download("test.txt", local, 0); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	data, err := os.ReadFile(local)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "file contents" {
		t.Errorf("downloaded content = %q", data)
	}
}

func TestSession_Download_AbortAfterSendsABOR(t *testing.T) {
	t.Parallel()

	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(rec.dial))
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}
	conn := rec.conns[0]
	conn.retrieveDelay = time.Second

	local := filepath.Join(t.TempDir(), "big.bin")
	err := s.Download("big.bin", local, 20*time.Millisecond)
	if err == nil {
		t.Fatal("aborted download should return an error")
	}

	var sawAbort bool
	for _, call := range conn.recorded() {
		if call == "ABOR" {
			sawAbort = true
		}
	}
	if !sawAbort {
		t.Errorf("ABOR should have been sent, calls = %v", conn.recorded())
	}
}

func TestSession_Raw(t *testing.T) {
	t.Parallel()

	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(rec.dial))
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}
	conn := rec.conns[0]
	conn.quoteResp = &ftp.Response{Code: 215, Message: "UNIX Type: L8", Lines: []string{"215 UNIX Type: L8"}}

	out, err := s.Raw("SYST")
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if out != "215 UNIX Type: L8" {
		t.Errorf("Raw output = %q", out)
	}

	if _, err := s.Raw("   "); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("blank line should return ErrEmptyCommand, got: %v", err)
	}

	if _, err := s.Raw("SITE CHMOD 755 run.sh"); err != nil {
		t.Fatalf("Raw with args failed: %v", err)
	}
	calls := conn.recorded()
	if calls[len(calls)-1] != "QUOTE SITE CHMOD 755 run.sh" {
		t.Errorf("Raw should forward the line split into command and args, calls = %v", calls)
	}
}

func TestSession_Quit_Idempotent(t *testing.T) {
	t.Parallel()

	rec := &dialRecorder{}
	s := New(testConfig(), WithDialFunc(rec.dial))
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}

	if err := s.Quit(); err != nil {
		t.Fatalf("Quit failed: %v", err)
	}
	if s.Connected() {
		t.Error("Quit should disconnect")
	}
	if err := s.Quit(); err != nil {
		t.Errorf("second Quit should be a no-op, got: %v", err)
	}
}
