package util

// MaxLogBodySize is the default number of body bytes kept for logs and the
// request journal.
const MaxLogBodySize = 10 * 1024

// TruncatedSuffix marks a body that TruncateBody shortened.
const TruncatedSuffix = "...(truncated)"

// TruncateBody truncates data to maxSize bytes, appending TruncatedSuffix if
// anything was cut. If maxSize <= 0, MaxLogBodySize is used.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) > maxSize {
		return data[:maxSize] + TruncatedSuffix
	}
	return data
}
