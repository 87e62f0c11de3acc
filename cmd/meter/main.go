// Command meter is a TCP relay that measures byte-level traffic using
// a counting stream decorator over the transport layer. Totals are
// exported to Prometheus and, in interactive mode, shown live in a
// terminal UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/layerio"
	"github.com/wippyai/layerio/count"
	"github.com/wippyai/layerio/exec"
	"github.com/wippyai/layerio/metrics"
	"github.com/wippyai/layerio/transport"
)

func main() {
	var (
		listen      = flag.String("listen", "", "Address to accept connections on")
		upstream    = flag.String("upstream", "", "Upstream address to relay to")
		metricsAddr = flag.String("metrics", "", "Address to serve /metrics on (optional)")
		configPath  = flag.String("config", "", "Path to TOML config file")
		workers     = flag.Int("workers", 0, "Completion pool size")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *upstream != "" {
		cfg.Upstream = *upstream
	}
	if *metricsAddr != "" {
		cfg.Metrics = *metricsAddr
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if cfg.Upstream == "" {
		fmt.Fprintln(os.Stderr, "Usage: meter -upstream <addr> [-listen addr] [-metrics addr] [-i]")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		layerio.SetLogger(logger)
	}

	if *interactive && !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
		os.Exit(1)
	}

	r := newRelay(cfg)
	if err := r.start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(r); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	select {}
}

// relay accepts client connections and pumps traffic to the upstream
// through counting decorators.
type relay struct {
	cfg       Config
	pool      *exec.Pool
	collector *metrics.Collector

	mu       sync.Mutex
	sessions map[string]*count.Stream
	ln       net.Listener
}

func newRelay(cfg Config) *relay {
	return &relay{
		cfg:       cfg,
		pool:      exec.NewPool(cfg.Workers),
		collector: metrics.NewCollector(),
		sessions:  make(map[string]*count.Stream),
	}
}

func (r *relay) start() error {
	ln, err := net.Listen("tcp", r.cfg.Listen)
	if err != nil {
		return err
	}
	r.ln = ln
	layerio.Logger().Info("relay listening",
		zap.String("listen", ln.Addr().String()),
		zap.String("upstream", r.cfg.Upstream))

	if r.cfg.Metrics != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(r.collector)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(r.cfg.Metrics, mux); err != nil {
				layerio.Logger().Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	go r.acceptLoop()
	return nil
}

func (r *relay) addr() string {
	return r.ln.Addr().String()
}

func (r *relay) acceptLoop() {
	for {
		conn, err := r.ln.Accept()
		if err != nil {
			layerio.Logger().Info("accept loop exiting", zap.Error(err))
			return
		}
		go r.serve(conn)
	}
}

// dialUpstream retries transient dial failures with exponential
// backoff; a down upstream at accept time does not drop the client
// immediately.
func (r *relay) dialUpstream() (*transport.Conn, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = r.cfg.RetryElapsed
	return backoff.RetryWithData(func() (*transport.Conn, error) {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.DialTimeout)
		defer cancel()
		return transport.Dial(ctx, "tcp", r.cfg.Upstream, r.pool)
	}, bo)
}

func (r *relay) serve(clientConn net.Conn) {
	up, err := r.dialUpstream()
	if err != nil {
		layerio.Logger().Error("upstream dial failed", zap.Error(err))
		clientConn.Close()
		return
	}

	client := count.New(transport.NewConn(clientConn, r.pool))
	upstream := count.New(up)

	name := clientConn.RemoteAddr().String()
	name = r.collector.Register(name, client)
	r.mu.Lock()
	r.sessions[name] = client
	r.mu.Unlock()

	var once sync.Once
	done := func(err error) {
		once.Do(func() {
			clientConn.Close()
			up.Close()
			r.mu.Lock()
			delete(r.sessions, name)
			r.mu.Unlock()
			r.collector.Unregister(name)
			layerio.Logger().Info("session closed",
				zap.String("client", name),
				zap.Uint64("bytes_in", client.BytesRead()),
				zap.Uint64("bytes_out", client.BytesWritten()),
				zap.NamedError("reason", err))
		})
	}

	pump(client, upstream, done)
	pump(upstream, client, done)
}

// pump chains asynchronous reads on src into synchronous writes on
// dst until either side reports an error.
func pump(src, dst layerio.ReadWriteStream, done func(error)) {
	buf := make([]byte, 32*1024)
	var onRead layerio.HandlerFunc
	onRead = func(err error, n int) {
		if n > 0 {
			if _, werr := dst.WriteSome(buf[:n]); werr != nil {
				done(werr)
				return
			}
		}
		if err != nil {
			done(err)
			return
		}
		if ierr := src.AsyncReadSome(buf, onRead); ierr != nil {
			done(ierr)
		}
	}
	if err := src.AsyncReadSome(buf, onRead); err != nil {
		done(err)
	}
}

type sessionStat struct {
	name    string
	read    uint64
	written uint64
}

func (r *relay) snapshot() []sessionStat {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := make([]sessionStat, 0, len(r.sessions))
	for name, cs := range r.sessions {
		stats = append(stats, sessionStat{
			name:    name,
			read:    cs.BytesRead(),
			written: cs.BytesWritten(),
		})
	}
	return stats
}
