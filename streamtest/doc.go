// Package streamtest provides test doubles for layered stream code: a
// scripted stream whose read and write outcomes are queued in advance,
// and a recording executor that counts posts, dispatches and work
// holds so tests can verify keep-alive accounting.
package streamtest
