//go:build linux

package main

import (
	"os"

	"github.com/hostprint/hostprint/internal/app"
)

var (
	version   = ""
	commit    = ""
	buildDate = ""
)

// go build -ldflags "-X main.version=v0.1.0 -X main.commit=$(git rev-parse --short HEAD) -X 'main.buildDate=$(date +%Y-%m-%d)'" -o hostprint ./cmd/hostprint

func main() {
	app.SetVersionBuildCommitString(version, commit, buildDate)
	os.Exit(app.Execute())
}
