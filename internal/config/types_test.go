// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
	"time"
)

func TestTransferMode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mode    TransferMode
		wantErr bool
	}{
		{"binary", TransferBinary, false},
		{"ascii", TransferASCII, false},
		{"empty", TransferMode(""), true},
		{"lowercase", TransferMode("i"), true},
		{"unknown", TransferMode("E"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.mode.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Validate(%q) should fail", tt.mode)
				}
				if !errors.Is(err, ErrInvalidTransferMode) {
					t.Errorf("error should wrap ErrInvalidTransferMode, got: %v", err)
				}
				var modeErr *InvalidTransferModeError
				if !errors.As(err, &modeErr) {
					t.Errorf("error should be *InvalidTransferModeError, got: %T", err)
				}
			} else if err != nil {
				t.Errorf("Validate(%q) = %v, want nil", tt.mode, err)
			}
		})
	}
}

func TestTimeoutSpec_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    TimeoutSpec
		wantErr bool
	}{
		{"empty is default", TimeoutSpec(""), false},
		{"seconds", TimeoutSpec("30s"), false},
		{"minutes", TimeoutSpec("2m"), false},
		{"garbage", TimeoutSpec("soon"), true},
		{"negative", TimeoutSpec("-5s"), true},
		{"zero", TimeoutSpec("0s"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.spec.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Validate(%q) should fail", tt.spec)
				}
				if !errors.Is(err, ErrInvalidTimeout) {
					t.Errorf("error should wrap ErrInvalidTimeout, got: %v", err)
				}
			} else if err != nil {
				t.Errorf("Validate(%q) = %v, want nil", tt.spec, err)
			}
		})
	}
}

func TestTimeoutSpec_Duration(t *testing.T) {
	t.Parallel()

	fallback := 30 * time.Second
	if got := TimeoutSpec("").Duration(fallback); got != fallback {
		t.Errorf("empty spec should use fallback, got %v", got)
	}
	if got := TimeoutSpec("10s").Duration(fallback); got != 10*time.Second {
		t.Errorf("Duration(10s) = %v, want 10s", got)
	}
	if got := TimeoutSpec("bogus").Duration(fallback); got != fallback {
		t.Errorf("unparsable spec should use fallback, got %v", got)
	}
}

func TestConfig_Validate_Defaults(t *testing.T) {
	t.Parallel()
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestConfig_Validate_AggregatesFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Host:         "   ",
		Port:         0,
		TransferType: "X",
		Timeout:      "never",
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate should fail for an all-invalid config")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got: %v", err)
	}

	var cfgErr *InvalidConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error should be *InvalidConfigError, got: %T", err)
	}
	if len(cfgErr.FieldErrors) != 4 {
		t.Errorf("expected 4 field errors, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}

	// Individual sentinels remain reachable through the aggregate.
	for _, sentinel := range []error{ErrInvalidHost, ErrInvalidPort, ErrInvalidTransferMode, ErrInvalidTimeout} {
		if !errors.Is(err, sentinel) {
			t.Errorf("aggregate should wrap %v", sentinel)
		}
	}
}

func TestConfig_Validate_PortRange(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Port = 65536
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidPort) {
		t.Errorf("port 65536 should wrap ErrInvalidPort, got: %v", err)
	}

	var portErr *InvalidPortError
	if !errors.As(err, &portErr) {
		t.Fatalf("error should be *InvalidPortError, got: %T", err)
	}
	if portErr.Value != 65536 {
		t.Errorf("InvalidPortError.Value = %d, want 65536", portErr.Value)
	}
}

func TestConfig_Addr(t *testing.T) {
	t.Parallel()

	cfg := &Config{Host: "ftp.example.com", Port: 2121}
	if got, want := cfg.Addr(), "ftp.example.com:2121"; got != want {
		t.Errorf("Addr() = %q, want %q", got, want)
	}
}
