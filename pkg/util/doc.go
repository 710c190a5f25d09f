// Package util provides small helpers shared by the engine and transports.
//
//   - TruncateBody caps request and response bodies kept for logs and the
//     request journal
package util
