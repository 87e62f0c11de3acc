// Package count provides a layered stream decorator that accumulates
// running totals of bytes read and written on its next layer.
//
// The decorator mirrors the next layer's capability set exactly, so it
// is a drop-in substitute and can itself be wrapped again. Counters
// are updated from the transferred amount the next layer reports, even
// when an error accompanies a partial transfer, and the update is
// always visible to the completion handler for the same call.
package count
