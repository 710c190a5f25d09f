// Package transport sends HTTP requests on behalf of the users client and the
// contract validator.
//
// HTTP talks to a real server through net/http; Handler calls an
// http.Handler directly, which lets lifecycle runs exercise an engine without
// binding a port. Both expand {name} path segments from Request.PathParams.
//
// Error statuses are returned as responses. HTTP additionally logs them at
// Warn level together with a prefix of the body.
package transport
