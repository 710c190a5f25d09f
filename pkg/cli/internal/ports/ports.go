// Package ports provides port availability checking.
package ports

import (
	"fmt"
	"net"
	"strconv"
)

// Check returns an error if port cannot be bound on the loopback interface.
// Port 0 always passes since the OS picks a free port.
func Check(port int) error {
	if port == 0 {
		return nil
	}
	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("port %d is not available: %w", port, err)
	}
	_ = ln.Close()
	return nil
}
