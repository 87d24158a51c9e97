package status

import (
	"strings"
	"testing"
)

func TestViewRendersFrameAndUnderruns(t *testing.T) {
	m := model{
		showECM: true,
		last: Snapshot{
			Frame:    42,
			Channels: []ChannelStat{{Name: "ch0", Underruns: 3}},
			ECM:      "ECM seq=7",
		},
	}

	out := m.View()
	for _, want := range []string{"42", "ch0", "3", "ECM seq=7"} {
		if !strings.Contains(out, want) {
			t.Fatalf("View() missing %q in:\n%s", want, out)
		}
	}
}

func TestViewOmitsECMWhenNotRequested(t *testing.T) {
	m := model{last: Snapshot{ECM: "ECM seq=7"}}
	if strings.Contains(m.View(), "ECM seq=7") {
		t.Fatal("View() rendered ECM line when showECM was false")
	}
}

func TestUpdateAppliesIncomingSnapshot(t *testing.T) {
	ch := make(chan Snapshot, 1)
	ch <- Snapshot{Frame: 7}
	m := model{snapshots: ch}

	next, _ := m.Update(Snapshot{Frame: 7})
	nm := next.(model)
	if nm.last.Frame != 7 {
		t.Fatalf("last.Frame = %d, want 7", nm.last.Frame)
	}
}
