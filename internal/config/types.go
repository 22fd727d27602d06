// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// TransferBinary transfers files as-is (FTP TYPE I).
	TransferBinary TransferMode = "I"
	// TransferASCII transfers files with line-ending translation (FTP TYPE A).
	TransferASCII TransferMode = "A"
)

var (
	// ErrInvalidTransferMode is returned when a TransferMode value is not recognized.
	ErrInvalidTransferMode = errors.New("invalid transfer mode")
	// ErrInvalidPort is returned when a port is outside the 1-65535 range.
	ErrInvalidPort = errors.New("invalid port")
	// ErrInvalidTimeout is returned when a TimeoutSpec does not parse as a positive duration.
	ErrInvalidTimeout = errors.New("invalid timeout")
	// ErrInvalidHost is returned when a host is empty or whitespace-only.
	ErrInvalidHost = errors.New("invalid host")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// TransferMode is the FTP representation type used for transfers,
	// "I" (binary/image) or "A" (ASCII).
	TransferMode string

	// InvalidTransferModeError is returned when a TransferMode value is not
	// recognized. It wraps ErrInvalidTransferMode for errors.Is() compatibility.
	InvalidTransferModeError struct {
		Value TransferMode
	}

	// TimeoutSpec is a human-readable duration string such as "30s" or "2m".
	// The zero value ("") is valid and means the default timeout.
	TimeoutSpec string

	// InvalidTimeoutError is returned when a TimeoutSpec value does not
	// parse as a positive duration. It wraps ErrInvalidTimeout.
	InvalidTimeoutError struct {
		Value TimeoutSpec
		Cause error
	}

	// InvalidPortError is returned when a port value is out of range.
	// It wraps ErrInvalidPort for errors.Is() compatibility.
	InvalidPortError struct {
		Value int
	}

	// InvalidConfigError aggregates all field validation failures of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// UIConfig holds terminal output settings.
	UIConfig struct {
		// Verbose enables debug-level protocol logging.
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
	}

	// Config is the top-level rftp configuration.
	Config struct {
		// Host is the FTP server hostname or address.
		Host string `mapstructure:"host" toml:"host"`
		// Port is the FTP control port.
		Port int `mapstructure:"port" toml:"port"`
		// User is the login username.
		User string `mapstructure:"user" toml:"user"`
		// Password is the login password.
		Password string `mapstructure:"password" toml:"password"`
		// Passive selects passive (PASV/EPSV) data connections; false uses
		// active mode (PORT).
		Passive bool `mapstructure:"passive" toml:"passive"`
		// TransferType is the initial representation type, "I" or "A".
		TransferType TransferMode `mapstructure:"transfer_type" toml:"transfer_type"`
		// Timeout bounds dial and per-command I/O, e.g. "30s".
		Timeout TimeoutSpec `mapstructure:"timeout" toml:"timeout"`
		// Encoding names the server's listing/path encoding when it is not
		// UTF-8 (e.g. "latin1", "big5"). Empty means no transcoding.
		Encoding string `mapstructure:"encoding" toml:"encoding"`
		// UI holds terminal output settings.
		UI UIConfig `mapstructure:"ui" toml:"ui"`
	}
)

// Error implements the error interface.
func (e *InvalidTransferModeError) Error() string {
	return fmt.Sprintf("invalid transfer mode %q (valid: %q, %q)", e.Value, TransferBinary, TransferASCII)
}

// Unwrap returns the sentinel ErrInvalidTransferMode.
func (e *InvalidTransferModeError) Unwrap() error { return ErrInvalidTransferMode }

// Validate checks that the TransferMode is one of the known values.
func (m TransferMode) Validate() error {
	switch m {
	case TransferBinary, TransferASCII:
		return nil
	default:
		return &InvalidTransferModeError{Value: m}
	}
}

// Error implements the error interface.
func (e *InvalidTimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid timeout %q: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid timeout %q: must be positive", e.Value)
}

// Unwrap returns the sentinel ErrInvalidTimeout.
func (e *InvalidTimeoutError) Unwrap() error { return ErrInvalidTimeout }

// Validate checks that the TimeoutSpec parses as a positive duration.
// The zero value is valid.
func (s TimeoutSpec) Validate() error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(string(s))
	if err != nil {
		return &InvalidTimeoutError{Value: s, Cause: err}
	}
	if d <= 0 {
		return &InvalidTimeoutError{Value: s}
	}
	return nil
}

// Duration returns the parsed duration, or fallback for the zero value or
// an unparsable value. Call Validate first when the distinction matters.
func (s TimeoutSpec) Duration(fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(string(s))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Error implements the error interface.
func (e *InvalidPortError) Error() string {
	return fmt.Sprintf("invalid port %d: must be between 1 and 65535", e.Value)
}

// Unwrap returns the sentinel ErrInvalidPort.
func (e *InvalidPortError) Unwrap() error { return ErrInvalidPort }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns the field errors plus the sentinel ErrInvalidConfig so
// that errors.Is works against both.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate checks all Config fields and aggregates the failures.
// A nil return means the config is usable for dialing.
func (c *Config) Validate() error {
	var fieldErrs []error

	if strings.TrimSpace(c.Host) == "" {
		fieldErrs = append(fieldErrs, fmt.Errorf("%w: host must not be empty", ErrInvalidHost))
	}
	if c.Port < 1 || c.Port > 65535 {
		fieldErrs = append(fieldErrs, &InvalidPortError{Value: c.Port})
	}
	if err := c.TransferType.Validate(); err != nil {
		fieldErrs = append(fieldErrs, err)
	}
	if err := c.Timeout.Validate(); err != nil {
		fieldErrs = append(fieldErrs, err)
	}

	if len(fieldErrs) > 0 {
		return &InvalidConfigError{FieldErrors: fieldErrs}
	}
	return nil
}

// Addr returns the host:port dial address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
