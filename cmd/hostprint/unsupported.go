//go:build !linux

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(
		os.Stderr,
		"hostprint is only supported on Linux.\n\nIf you are seeing this message, you are attempting to build or run hostprint on a platform without the /proc filesystem it probes.\n\nPlease use Linux to build and run hostprint.",
	)
	os.Exit(1)
}
