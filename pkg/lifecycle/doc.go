// Package lifecycle drives a resource through a scenario of stubbed calls and
// checks every response on the way.
//
// UsersPlan encodes the Users chain: create, read, update, read, delete and a
// final read that must answer 404. A Driver registers the plan's stubs on an
// engine, runs the steps in order, stops at the first failure and resets the
// engine afterwards. A failed run's report carries the engine's journal so
// the failing request can be diagnosed.
package lifecycle
