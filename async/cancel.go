package async

// CancelKind classifies the category of external cancellation request
// that applies to a pending operation. The completion path consults
// the classification; it never mutates it. Propagating cancellation is
// the next layer's responsibility, reported through the standard error
// argument of the completion handler.
type CancelKind uint8

const (
	// CancelNone: the operation does not support cancellation.
	CancelNone CancelKind = iota

	// CancelTerminal: cancellation leaves the stream in an unknown
	// state; only closing it is safe afterwards. The default.
	CancelTerminal

	// CancelPartial: cancellation may leave a partial transfer but the
	// stream remains usable.
	CancelPartial

	// CancelTotal: cancellation completes with no observable side
	// effects.
	CancelTotal
)

func (k CancelKind) String() string {
	switch k {
	case CancelNone:
		return "none"
	case CancelTerminal:
		return "terminal"
	case CancelPartial:
		return "partial"
	case CancelTotal:
		return "total"
	default:
		return "unknown"
	}
}
