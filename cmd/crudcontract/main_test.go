package main

import (
	"context"
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/getmockd/crudcontract/pkg/cli"
)

// TestMain lets testscript run the CLI in process as the crudcontract command.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"crudcontract": func() int {
			info := cli.BuildInfo{Version: "test", Commit: "none", BuildDate: "unknown"}
			return cli.Execute(context.Background(), info, os.Args[1:], os.Stdout, os.Stderr)
		},
	}))
}

func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("CRUDCONTRACT_LOG_LEVEL", "error")
			return nil
		},
	})
}
