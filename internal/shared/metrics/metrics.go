package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	extractionRunsTotal          atomic.Uint64
	extractionDocsAttemptedTotal atomic.Uint64
	extractionDocsSucceededTotal atomic.Uint64
	extractionDocsFailedTotal    atomic.Uint64
	extractionFieldsSavedTotal   atomic.Uint64

	runDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})

	jobsReceivedTotal             atomic.Uint64
	jobsCompletedTotal            atomic.Uint64
	jobsFailedTotal               atomic.Uint64
	jobsDeletedUnrecoverableTotal atomic.Uint64
)

// IncRunStarted increments the extraction-run counter.
func IncRunStarted() {
	extractionRunsTotal.Add(1)
}

// IncDocAttempted increments the per-document attempt counter.
func IncDocAttempted() {
	extractionDocsAttemptedTotal.Add(1)
}

// IncDocSucceeded increments the per-document success counter.
func IncDocSucceeded() {
	extractionDocsSucceededTotal.Add(1)
}

// IncDocFailed increments the per-document failure counter.
func IncDocFailed() {
	extractionDocsFailedTotal.Add(1)
}

// AddFieldsSaved adds to the saved field-result counter.
func AddFieldsSaved(n int) {
	if n > 0 {
		extractionFieldsSavedTotal.Add(uint64(n))
	}
}

// ObserveRunDurationMs records an extraction run duration in milliseconds.
func ObserveRunDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	runDuration.Observe(value)
}

// IncJobsReceived increments the queue-message received counter.
func IncJobsReceived() {
	jobsReceivedTotal.Add(1)
}

// IncJobsCompleted increments the queue-message completed counter.
func IncJobsCompleted() {
	jobsCompletedTotal.Add(1)
}

// IncJobsFailed increments the queue-message failure counter.
func IncJobsFailed() {
	jobsFailedTotal.Add(1)
}

// IncJobsDeletedUnrecoverable increments the counter of malformed
// messages deleted without processing.
func IncJobsDeletedUnrecoverable() {
	jobsDeletedUnrecoverableTotal.Add(1)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "extraction_runs_total", "Total extraction runs started", extractionRunsTotal.Load())
	writeCounter(&buf, "extraction_documents_attempted_total", "Total documents attempted across runs", extractionDocsAttemptedTotal.Load())
	writeCounter(&buf, "extraction_documents_succeeded_total", "Total documents that produced results", extractionDocsSucceededTotal.Load())
	writeCounter(&buf, "extraction_documents_failed_total", "Total documents that failed extraction", extractionDocsFailedTotal.Load())
	writeCounter(&buf, "extraction_field_results_saved_total", "Total per-field results persisted", extractionFieldsSavedTotal.Load())
	writeHistogram(&buf, "extraction_run_duration_ms", "Extraction run duration in milliseconds", runDuration.Snapshot())
	writeCounter(&buf, "extraction_jobs_received_total", "Total queue messages received", jobsReceivedTotal.Load())
	writeCounter(&buf, "extraction_jobs_completed_total", "Total queue messages processed successfully", jobsCompletedTotal.Load())
	writeCounter(&buf, "extraction_jobs_failed_total", "Total queue messages that failed processing", jobsFailedTotal.Load())
	writeCounter(&buf, "extraction_jobs_deleted_unrecoverable_total", "Total malformed queue messages deleted", jobsDeletedUnrecoverableTotal.Load())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
