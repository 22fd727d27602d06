// SPDX-License-Identifier: MPL-2.0

// Package issue provides structured, user-facing errors for rftp.
//
// An ActionableError carries the operation that failed, the resource
// involved (a remote path, a server address, a config file), and
// suggestions for fixing the problem. One-shot commands surface these
// directly; the interactive shell collapses them to a single
// "[Error] ..." line and keeps running.
package issue
