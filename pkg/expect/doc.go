// Package expect holds the assertions made on lifecycle and contract
// responses. Every failed assertion is an *AssertionMismatchError carrying
// the complete expected and actual values.
package expect
