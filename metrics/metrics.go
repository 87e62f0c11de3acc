// Package metrics exports layered stream byte counters to Prometheus.
package metrics

import (
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// ByteCounter is the capability the collector reads: any stream
// exposing cumulative byte totals, such as a count.Stream.
type ByteCounter interface {
	BytesRead() uint64
	BytesWritten() uint64
}

// Collector is a prometheus.Collector reporting the byte totals of
// registered streams, labeled by stream name.
type Collector struct {
	mu      sync.RWMutex
	streams map[string]ByteCounter

	readDesc    *prometheus.Desc
	writtenDesc *prometheus.Desc
}

// NewCollector returns an empty collector. Register it with a
// prometheus.Registerer to expose the metrics.
func NewCollector() *Collector {
	return &Collector{
		streams: make(map[string]ByteCounter),
		readDesc: prometheus.NewDesc(
			"layerio_stream_bytes_read_total",
			"Total bytes read through the stream since construction.",
			[]string{"stream"}, nil,
		),
		writtenDesc: prometheus.NewDesc(
			"layerio_stream_bytes_written_total",
			"Total bytes written through the stream since construction.",
			[]string{"stream"}, nil,
		),
	}
}

// Register adds s under name and returns the name used. An empty name
// gets a generated one. Registering an existing name replaces the
// stream, so a reconnect can keep its label.
func (c *Collector) Register(name string, s ByteCounter) string {
	if name == "" {
		name = uuid.NewString()
	}
	c.mu.Lock()
	c.streams[name] = s
	c.mu.Unlock()
	return name
}

// Unregister removes the named stream.
func (c *Collector) Unregister(name string) {
	c.mu.Lock()
	delete(c.streams, name)
	c.mu.Unlock()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.readDesc
	ch <- c.writtenDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, s := range c.streams {
		ch <- prometheus.MustNewConstMetric(c.readDesc,
			prometheus.CounterValue, float64(s.BytesRead()), name)
		ch <- prometheus.MustNewConstMetric(c.writtenDesc,
			prometheus.CounterValue, float64(s.BytesWritten()), name)
	}
}
