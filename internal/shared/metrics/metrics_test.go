package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var sb strings.Builder
	snap := h.Snapshot()
	var cumulative uint64
	for i := range snap.buckets {
		cumulative += snap.counts[i]
		sb.WriteString(formatFloat(snap.buckets[i]))
		sb.WriteString("=")
		sb.WriteString(formatFloat(float64(cumulative)))
		sb.WriteString(" ")
	}
	if got := strings.TrimSpace(sb.String()); got != "10=1 100=2" {
		t.Fatalf("unexpected buckets: %s", got)
	}
	if snap.count != 3 || snap.sum != 555 {
		t.Fatalf("unexpected count/sum: %d %v", snap.count, snap.sum)
	}
}

func TestRenderIncludesFeedbackSeries(t *testing.T) {
	IncFeedbackRequested()
	IncFeedbackFailed()
	ObserveFeedbackDurationMs(-3)

	out := Render()
	for _, want := range []string{
		"# TYPE feedback_requested_total counter",
		"feedback_failed_total ",
		"feedback_rejected_total ",
		"feedback_duration_ms_bucket{le=\"+Inf\"}",
		"feedback_duration_ms_count ",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}
