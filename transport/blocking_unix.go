//go:build unix

package transport

import (
	"fmt"
	"syscall"

	"github.com/wippyai/layerio/errors"
)

// SetBlocking sets the blocking mode of the underlying file
// descriptor. Connections that do not expose a descriptor, such as
// in-process pipes, lack the capability and fail before any state
// changes.
func (c *Conn) SetBlocking(blocking bool) error {
	sc, ok := c.conn.(syscall.Conn)
	if !ok {
		return errors.CapabilityMissing(errors.PhaseTransport,
			fmt.Sprintf("%T", c.conn), "blocking mode toggle")
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return err
	}
	var opErr error
	if err := raw.Control(func(fd uintptr) {
		opErr = syscall.SetNonblock(int(fd), !blocking)
	}); err != nil {
		return err
	}
	return opErr
}
