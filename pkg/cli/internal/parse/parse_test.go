package parse

import "testing"

func TestKeyValue(t *testing.T) {
	tests := []struct {
		in         string
		delims     []rune
		key, value string
		ok         bool
	}{
		{"Accept:application/json", nil, "Accept", "application/json", true},
		{"id=123", []rune{'=', ':'}, "id", "123", true},
		{"a:b:c", nil, "a", "b:c", true},
		{"novalue", nil, "", "", false},
	}
	for _, tt := range tests {
		key, value, ok := KeyValue(tt.in, tt.delims...)
		if key != tt.key || value != tt.value || ok != tt.ok {
			t.Errorf("KeyValue(%q) = (%q, %q, %v), want (%q, %q, %v)", tt.in, key, value, ok, tt.key, tt.value, tt.ok)
		}
	}
}

func TestHeaders(t *testing.T) {
	got, err := Headers([]string{"Accept: application/json", " X-Trace :abc "})
	if err != nil {
		t.Fatalf("Headers() error = %v", err)
	}
	if got["Accept"] != "application/json" || got["X-Trace"] != "abc" {
		t.Errorf("Headers() = %v", got)
	}

	for _, bad := range []string{"Accept", ": value"} {
		if _, err := Headers([]string{bad}); err == nil {
			t.Errorf("Headers(%q) error = nil, want error", bad)
		}
	}
}
