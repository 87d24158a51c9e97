package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersIndependentInstances(t *testing.T) {
	// Two instances in the same process must not panic on duplicate
	// registration against the shared default registry.
	a := New()
	b := New()

	a.FramesTotal.Add(3)
	b.FramesTotal.Add(5)

	if got := testutil.ToFloat64(a.FramesTotal); got != 3 {
		t.Fatalf("a.FramesTotal = %v, want 3", got)
	}
	if got := testutil.ToFloat64(b.FramesTotal); got != 5 {
		t.Fatalf("b.FramesTotal = %v, want 5", got)
	}
}

func TestUnderrunsTotalLabelsByChannel(t *testing.T) {
	m := New()
	m.UnderrunsTotal.WithLabelValues("ch0").Inc()
	m.UnderrunsTotal.WithLabelValues("ch0").Inc()
	m.UnderrunsTotal.WithLabelValues("ch1").Inc()

	if got := testutil.ToFloat64(m.UnderrunsTotal.WithLabelValues("ch0")); got != 2 {
		t.Fatalf("ch0 underruns = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.UnderrunsTotal.WithLabelValues("ch1")); got != 1 {
		t.Fatalf("ch1 underruns = %v, want 1", got)
	}
}

func TestGatherIncludesRegisteredMetrics(t *testing.T) {
	m := New()
	m.FramesTotal.Add(1)

	families, err := m.registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "hacktv_frames_total") {
		t.Fatalf("gathered families %v missing hacktv_frames_total", names)
	}
}
