package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeCounter struct {
	read, written uint64
}

func (f *fakeCounter) BytesRead() uint64    { return f.read }
func (f *fakeCounter) BytesWritten() uint64 { return f.written }

func TestCollector_ReportsRegisteredStreams(t *testing.T) {
	c := NewCollector()
	c.Register("uplink", &fakeCounter{read: 512, written: 37})

	expected := `
# HELP layerio_stream_bytes_read_total Total bytes read through the stream since construction.
# TYPE layerio_stream_bytes_read_total counter
layerio_stream_bytes_read_total{stream="uplink"} 512
# HELP layerio_stream_bytes_written_total Total bytes written through the stream since construction.
# TYPE layerio_stream_bytes_written_total counter
layerio_stream_bytes_written_total{stream="uplink"} 37
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

func TestCollector_GeneratedName(t *testing.T) {
	c := NewCollector()
	name := c.Register("", &fakeCounter{})
	if name == "" {
		t.Fatal("expected a generated name")
	}
	if got := testutil.CollectAndCount(c); got != 2 {
		t.Fatalf("expected 2 metrics, got %d", got)
	}
}

func TestCollector_Unregister(t *testing.T) {
	c := NewCollector()
	c.Register("a", &fakeCounter{})
	c.Unregister("a")
	if got := testutil.CollectAndCount(c); got != 0 {
		t.Fatalf("expected 0 metrics after unregister, got %d", got)
	}
}

func TestCollector_ReplaceKeepsLabel(t *testing.T) {
	c := NewCollector()
	c.Register("conn", &fakeCounter{read: 1})
	c.Register("conn", &fakeCounter{read: 2})
	if got := testutil.CollectAndCount(c); got != 2 {
		t.Fatalf("expected a single stream (2 metrics), got %d", got)
	}
}
