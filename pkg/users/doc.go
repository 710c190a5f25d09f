// Package users models the Users resource and provides a thin client for its
// create, read, update and delete calls.
package users
