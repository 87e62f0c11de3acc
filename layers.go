package layerio

import (
	"fmt"

	"github.com/wippyai/layerio/errors"
)

// Layered is implemented by stream decorators that wrap a next layer.
type Layered interface {
	NextLayer() Stream
}

// BlockingToggler is implemented by bottom layers whose blocking mode
// can be changed.
type BlockingToggler interface {
	SetBlocking(blocking bool) error
}

// LowestLayer descends a decorator stack and returns the bottom-most
// stream, the first layer that does not expose a next layer.
func LowestLayer(s Stream) Stream {
	for {
		l, ok := s.(Layered)
		if !ok {
			return s
		}
		s = l.NextLayer()
	}
}

// SetBlocking descends to the lowest layer of s and sets its blocking
// mode. If the bottom layer does not implement BlockingToggler the
// call fails with a capability error before any state changes; any
// error from the transport itself is propagated unmodified.
func SetBlocking(s Stream, blocking bool) error {
	lowest := LowestLayer(s)
	bt, ok := lowest.(BlockingToggler)
	if !ok {
		return errors.CapabilityMissing(errors.PhaseDescend,
			fmt.Sprintf("%T", lowest), "blocking mode toggle")
	}
	return bt.SetBlocking(blocking)
}

// SetNonBlocking is shorthand for SetBlocking(s, false).
func SetNonBlocking(s Stream) error {
	return SetBlocking(s, false)
}
