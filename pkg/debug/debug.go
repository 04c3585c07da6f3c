// Package debug exposes the operational endpoints a zapstore process serves
// when asked: Prometheus metrics, pprof profiles, and liveness and readiness
// probes. Packages register their metrics on Registry at init time; binaries
// mount GetMux wherever they serve debug traffic.
package debug

import (
	"net/http"
	"net/http/pprof"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ready atomic.Bool

	handlersMu sync.RWMutex
	handlers   = make(map[string]http.HandlerFunc)

	// registry collects metrics from all zapstore packages, kept separate
	// from the default registry so tests can rebuild state without
	// duplicate-registration panics.
	registry = prometheus.NewRegistry()
)

// Registry returns the registerer all zapstore packages hang their metrics
// on. Registered metrics are exported on /metrics alongside the default
// process and Go collectors.
func Registry() prometheus.Registerer { return registry }

// SetReady marks the process ready to serve; /ready starts returning 200.
func SetReady() { ready.Store(true) }

// SetNotReady marks the process as draining; /ready returns 503 again.
func SetNotReady() { ready.Store(false) }

// IsReady reports the current readiness state.
func IsReady() bool { return ready.Load() }

// RegisterHandlerFunc mounts a handler on the debug mux. Must be called
// before GetMux to be included.
func RegisterHandlerFunc(pattern string, handler http.HandlerFunc) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers[pattern] = handler
}

// GetMux builds the debug mux: /metrics, /debug/pprof, the health probes,
// and anything packages registered.
func GetMux() *http.ServeMux {
	mux := http.NewServeMux()

	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer, registry}
	mux.Handle("/metrics", promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}))

	// Index dispatches named profiles (heap, goroutine, ...) itself
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if IsReady() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	handlersMu.RLock()
	defer handlersMu.RUnlock()
	for pattern, handler := range handlers {
		mux.HandleFunc(pattern, handler)
	}
	return mux
}
