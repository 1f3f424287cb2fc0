// Command coverage анализирует освещение темы в поисковом API Guardian.
package main

import (
	"context"
	"coverage/internal/cli"
	"os"
)

// Задаются при сборке через ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, buildTime)
	if err := cli.Execute(context.Background()); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
