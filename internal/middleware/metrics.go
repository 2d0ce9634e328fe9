package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/bryanwahyu/drcalm/internal/domain/analysis"
)

// Metrics stores application metrics. It implements analysis.Recorder.
type Metrics struct {
	RequestsTotal      atomic.Uint64
	RequestsInProgress atomic.Int64
	RequestsSuccess    atomic.Uint64
	RequestsFailed     atomic.Uint64
	AnalysesTotal      atomic.Uint64
	AnalysesFailed     atomic.Uint64
	StartTime          time.Time

	// images[kind][outcome]; the maps are fixed after NewMetrics
	images map[analysis.ImageKind]map[analysis.ImageOutcome]*atomic.Uint64
}

var (
	imageKinds    = []analysis.ImageKind{analysis.ImagePathology, analysis.ImageAction}
	imageOutcomes = []analysis.ImageOutcome{analysis.ImageGenerated, analysis.ImageEmpty, analysis.ImageFailed, analysis.ImageSkipped}
)

var _ analysis.Recorder = (*Metrics)(nil)

func NewMetrics() *Metrics {
	m := &Metrics{
		StartTime: time.Now(),
		images:    make(map[analysis.ImageKind]map[analysis.ImageOutcome]*atomic.Uint64, len(imageKinds)),
	}
	for _, k := range imageKinds {
		m.images[k] = make(map[analysis.ImageOutcome]*atomic.Uint64, len(imageOutcomes))
		for _, o := range imageOutcomes {
			m.images[k][o] = new(atomic.Uint64)
		}
	}
	return m
}

// AnalysisDone implements analysis.Recorder.
func (m *Metrics) AnalysisDone(ok bool) {
	m.AnalysesTotal.Add(1)
	if !ok {
		m.AnalysesFailed.Add(1)
	}
}

// ImageDone implements analysis.Recorder.
func (m *Metrics) ImageDone(kind analysis.ImageKind, outcome analysis.ImageOutcome) {
	if c, ok := m.images[kind][outcome]; ok {
		c.Add(1)
	}
}

// ImageCount returns the counter for one kind and outcome.
func (m *Metrics) ImageCount(kind analysis.ImageKind, outcome analysis.ImageOutcome) uint64 {
	if c, ok := m.images[kind][outcome]; ok {
		return c.Load()
	}
	return 0
}

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]interface{} {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	images := make(map[string]map[string]uint64, len(m.images))
	for k, byOutcome := range m.images {
		images[string(k)] = make(map[string]uint64, len(byOutcome))
		for o, c := range byOutcome {
			images[string(k)][string(o)] = c.Load()
		}
	}

	return map[string]interface{}{
		"requests_total":       m.RequestsTotal.Load(),
		"requests_in_progress": m.RequestsInProgress.Load(),
		"requests_success":     m.RequestsSuccess.Load(),
		"requests_failed":      m.RequestsFailed.Load(),
		"analyses_total":       m.AnalysesTotal.Load(),
		"analyses_failed":      m.AnalysesFailed.Load(),
		"images":               images,
		"uptime_seconds":       time.Since(m.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       mem.Alloc,
			"total_alloc_bytes": mem.TotalAlloc,
			"sys_bytes":         mem.Sys,
			"num_gc":            mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RequestsTotal.Add(1)
		m.RequestsInProgress.Add(1)
		defer m.RequestsInProgress.Add(-1)

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			m.RequestsSuccess.Add(1)
		} else {
			m.RequestsFailed.Add(1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m.Snapshot())
}
