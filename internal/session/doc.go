// SPDX-License-Identifier: MPL-2.0

// Package session owns one FTP connection and the client-side state that
// goes with it: connection parameters, the passive/active flag, and the
// current transfer type. It maps rftp verbs onto the underlying FTP
// client and is the only package that talks to the protocol library.
//
// The protocol client sits behind the Conn interface so tests can inject
// a fake; production code dials through github.com/gonzalop/ftp.
package session
