// logging.go - host-side diagnostic output

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
)

// Quiet suppresses diagnostic output; set by the -quiet flag.
var Quiet bool

// logf prints a diagnostic line to stdout unless quiet mode is on.
func logf(format string, args ...any) {
	if Quiet {
		return
	}
	fmt.Printf(format+"\n", args...)
}

// errorf prints an error line to stderr regardless of quiet mode.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
