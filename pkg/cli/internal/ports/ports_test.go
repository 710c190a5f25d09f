package ports

import (
	"net"
	"testing"
)

func TestCheck(t *testing.T) {
	if err := Check(0); err != nil {
		t.Errorf("Check(0) error = %v, want nil", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	if err := Check(port); err == nil {
		t.Errorf("Check(%d) error = nil, want error for a bound port", port)
	}
}
