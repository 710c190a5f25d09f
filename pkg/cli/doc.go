// Package cli implements the crudcontract command line.
//
// Commands:
//
//	serve      run the stateful mock server with its admin API
//	lifecycle  drive the Users CRUD lifecycle against the mock
//	validate   validate the real API's GET /users against the Users schema
//	check      check stub files and print scenario transition tables
//	version    show build information
//
// Every command reads --config and CRUDCONTRACT_* variables through
// pkg/config, and writes JSON to stdout with --json.
package cli
