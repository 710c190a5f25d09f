// crudcontract CLI - contract and lifecycle harness for a Users CRUD API
package main

import (
	"context"
	"os"

	"github.com/getmockd/crudcontract/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	info := cli.BuildInfo{Version: Version, Commit: Commit, BuildDate: BuildDate}
	os.Exit(cli.Execute(context.Background(), info, os.Args[1:], os.Stdout, os.Stderr))
}
