package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAndSumWithPrefix(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["chunks.Update"] = 2 * time.Millisecond
	frameTotals["chunks.RenderOpaque"] = 3 * time.Millisecond
	frameTotals["weather.Render"] = 5 * time.Millisecond
	mu.Unlock()

	if got := SumWithPrefix("chunks."); got != 5*time.Millisecond {
		t.Fatalf("sum: got %v, want 5ms", got)
	}
	if top := TopN(1); !strings.HasPrefix(top, "weather.Render:5") {
		t.Fatalf("top: got %q", top)
	}

	Track("meshing.MakeChunk")()
	if _, ok := Snapshot()["meshing.MakeChunk"]; !ok {
		t.Fatalf("tracked bucket missing")
	}
	ResetFrame()
	if n := len(Snapshot()); n != 0 {
		t.Fatalf("after reset: got %d buckets, want 0", n)
	}
}

func TestCounters(t *testing.T) {
	ResetCounters()
	Add("chunks.updates", 3)
	Add("chunks.updates", 2)
	if got := Count("chunks.updates"); got != 5 {
		t.Fatalf("count: got %d, want 5", got)
	}
	Add("chunks.vertices", 40)
	if got := Counters(); got != "chunks.updates=5 chunks.vertices=40" {
		t.Fatalf("counters: got %q", got)
	}
	ResetCounters()
	if got := Count("chunks.updates"); got != 0 {
		t.Fatalf("after reset: got %d, want 0", got)
	}
}

func TestFormatMs(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{4 * time.Millisecond, "4ms"},
		{4200 * time.Microsecond, "4.2ms"},
		{250 * time.Microsecond, "0.2ms"},
	}
	for _, tt := range tests {
		if got := formatMs(tt.d); got != tt.want {
			t.Errorf("formatMs(%v): got %q, want %q", tt.d, got, tt.want)
		}
	}
}
