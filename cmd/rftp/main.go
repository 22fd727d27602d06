// SPDX-License-Identifier: MPL-2.0

// Command rftp is a small FTP client.
package main

import "github.com/powerfooI/rftp/internal/cli"

func main() {
	cli.Execute()
}
