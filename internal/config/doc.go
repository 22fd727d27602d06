// SPDX-License-Identifier: MPL-2.0

// Package config handles rftp configuration using Viper with TOML as the
// file format.
//
// Configuration is loaded from ~/.config/rftp/config.toml (or the XDG
// equivalent on Linux, ~/Library/Application Support/rftp/config.toml on
// macOS, %APPDATA%\rftp\config.toml on Windows). Values can be overridden
// with RFTP_* environment variables and command-line flags; flags win over
// the environment, which wins over the file, which wins over defaults.
package config
