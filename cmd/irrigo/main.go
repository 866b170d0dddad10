// Command irrigo builds and verifies deterministic execution plans for
// irrigation policy analysis.
package main

import (
	"os"

	"github.com/praxis-labs/irrigo/internal/adapters/driving/cli"
)

// version is set at build time:
//
//	go build -ldflags "-X main.version=1.2.3" ./cmd/irrigo
var version = ""

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
