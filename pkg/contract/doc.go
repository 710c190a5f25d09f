// Package contract checks a real Users API against its published schema,
// without any stub involvement.
package contract
