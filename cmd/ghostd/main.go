// ghostd is the GhostCopy clipboard synchronization daemon.
//
// It keeps the clipboard in sync across an account's devices: local copies
// are sent to a shared store, and items copied elsewhere are received over
// push or polling and applied according to the configured policy.
package main

import "github.com/ghostcopy/ghostd/internal/presentation/cli/commands"

func main() {
	commands.Execute()
}
