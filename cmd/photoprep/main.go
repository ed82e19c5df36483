// Command photoprep builds contact sheets and normalizes photo sets to
// retina size.
package main

import (
	"fmt"
	"os"

	"github.com/backmassage/photoprep/internal/cli"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	cli.SetVersion(version, commit)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "photoprep: %v\n", err)
		os.Exit(1)
	}
}
