package transport

import (
	"context"
	"net"

	"go.uber.org/zap"

	"github.com/wippyai/layerio"
	"github.com/wippyai/layerio/async"
	"github.com/wippyai/layerio/exec"
)

// Conn is a stream over a net.Conn. It is the usual lowest layer of a
// decorator stack.
type Conn struct {
	conn net.Conn
	ex   exec.Executor
}

// NewConn binds conn to ex. The Conn takes ownership; close it through
// Close, not through the wrapped net.Conn.
func NewConn(conn net.Conn, ex exec.Executor) *Conn {
	return &Conn{conn: conn, ex: ex}
}

// Dial connects to addr on the given network and binds the resulting
// connection to ex.
func Dial(ctx context.Context, network, addr string, ex exec.Executor) (*Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	layerio.Logger().Debug("transport dial",
		zap.String("network", network),
		zap.String("addr", addr),
		zap.String("local", conn.LocalAddr().String()))
	return NewConn(conn, ex), nil
}

// Executor returns the executor completions are dispatched on.
func (c *Conn) Executor() exec.Executor {
	return c.ex
}

// NetConn returns the wrapped net.Conn. Callers must not use it
// concurrently with in-flight operations.
func (c *Conn) NetConn() net.Conn {
	return c.conn
}

// ReadSome reads up to len(p) bytes from the connection.
func (c *Conn) ReadSome(p []byte) (int, error) {
	return c.conn.Read(p)
}

// WriteSome writes up to len(p) bytes to the connection.
func (c *Conn) WriteSome(p []byte) (int, error) {
	return c.conn.Write(p)
}

// AsyncReadSome issues an asynchronous read. The handler is dispatched
// through its resolved executor with the connection's outcome,
// including a partial transfer alongside an error.
func (c *Conn) AsyncReadSome(p []byte, h layerio.Handler) error {
	b, err := async.NewBase(h, c.ex)
	if err != nil {
		return err
	}
	go func() {
		n, rerr := c.conn.Read(p)
		b.Complete(rerr, n)
	}()
	return nil
}

// AsyncWriteSome issues an asynchronous write. Semantics mirror
// AsyncReadSome.
func (c *Conn) AsyncWriteSome(p []byte, h layerio.Handler) error {
	b, err := async.NewBase(h, c.ex)
	if err != nil {
		return err
	}
	go func() {
		n, werr := c.conn.Write(p)
		b.Complete(werr, n)
	}()
	return nil
}

// Close closes the connection. In-flight operations complete with the
// connection's close error.
func (c *Conn) Close() error {
	return c.conn.Close()
}
