// The inkdrop backend is installed into the spooler's backend
// directory and launched once per print job with the spooler's fixed
// positional argument vector. All diagnostics go to stderr, the
// spooler's log channel; the exit code is the only result the spooler
// reads.
package main

import (
	"os"

	"inkdrop/internal/backend"
)

func main() {
	os.Exit(backend.Run(backend.RunOptions{
		Args:  os.Args[1:],
		Stdin: os.Stdin,
	}))
}
