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
	feedbackRequestedTotal atomic.Uint64
	feedbackCompletedTotal atomic.Uint64
	feedbackFailedTotal    atomic.Uint64
	feedbackRejectedTotal  atomic.Uint64

	feedbackDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncFeedbackRequested counts a completion call about to be issued.
func IncFeedbackRequested() {
	feedbackRequestedTotal.Add(1)
}

// IncFeedbackCompleted counts a completion call that returned feedback.
func IncFeedbackCompleted() {
	feedbackCompletedTotal.Add(1)
}

// IncFeedbackFailed counts a completion call that failed.
func IncFeedbackFailed() {
	feedbackFailedTotal.Add(1)
}

// IncFeedbackRejected counts input refused before any remote call.
func IncFeedbackRejected() {
	feedbackRejectedTotal.Add(1)
}

// ObserveFeedbackDurationMs records a completion call duration in milliseconds.
func ObserveFeedbackDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	feedbackDuration.Observe(value)
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
	writeCounter(&buf, "feedback_requested_total", "Total completion calls issued", feedbackRequestedTotal.Load())
	writeCounter(&buf, "feedback_completed_total", "Total completion calls that returned feedback", feedbackCompletedTotal.Load())
	writeCounter(&buf, "feedback_failed_total", "Total completion calls that failed", feedbackFailedTotal.Load())
	writeCounter(&buf, "feedback_rejected_total", "Total resumes rejected before a completion call", feedbackRejectedTotal.Load())
	writeHistogram(&buf, "feedback_duration_ms", "Completion call duration in milliseconds", feedbackDuration.Snapshot())
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

// Observe records value in the first bucket whose bound covers it; Render accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
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
