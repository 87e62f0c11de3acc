//go:build !unix

package transport

import "github.com/wippyai/layerio/errors"

// SetBlocking is not supported on this platform.
func (c *Conn) SetBlocking(blocking bool) error {
	return errors.Unsupported(errors.PhaseTransport,
		"blocking mode toggle is not supported on this platform")
}
