package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		maxSize int
		want    string
	}{
		{"short body", `{"id":123}`, 100, `{"id":123}`},
		{"exact length", "12345", 5, "12345"},
		{"one over", "123456", 5, "12345...(truncated)"},
		{"zero maxSize uses default", "hello", 0, "hello"},
		{"negative maxSize uses default", "hello", -1, "hello"},
		{"empty body", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateBody(tt.data, tt.maxSize); got != tt.want {
				t.Errorf("TruncateBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateBody_DefaultMaxSize(t *testing.T) {
	t.Parallel()

	data := strings.Repeat("x", MaxLogBodySize+100)
	result := TruncateBody(data, 0)
	assert.Len(t, result, MaxLogBodySize+len(TruncatedSuffix))
	assert.True(t, strings.HasSuffix(result, TruncatedSuffix))

	short := data[:MaxLogBodySize]
	assert.Equal(t, short, TruncateBody(short, 0))
}
