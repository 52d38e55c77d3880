package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	Reset()
	for i := 0; i < 3; i++ {
		Track("terrain.Build")()
	}
	Track("colormap.Colorize")()

	ss := Snapshot()
	if len(ss) != 2 {
		t.Errorf("expected 2 stages, got %v", ss)
	}
	if _, ok := ss["colormap.Colorize"]; !ok {
		t.Errorf("Snapshot missing colormap.Colorize: %v", ss)
	}

	Reset()
	if len(Snapshot()) != 0 {
		t.Errorf("Reset left entries: %v", Snapshot())
	}
}

func TestSumWithPrefix(t *testing.T) {
	Reset()
	mu.Lock()
	totals["export.png"] = 2 * time.Millisecond
	totals["export.bmp"] = 3 * time.Millisecond
	totals["terrain.Build"] = 10 * time.Millisecond
	mu.Unlock()
	defer Reset()

	if got := SumWithPrefix("export."); got != 5*time.Millisecond {
		t.Errorf("SumWithPrefix(export.) = %v, expected 5ms", got)
	}
}

func TestTopN(t *testing.T) {
	Reset()
	mu.Lock()
	totals["a"] = 1500 * time.Microsecond
	totals["b"] = 4 * time.Millisecond
	totals["c"] = 200 * time.Microsecond
	mu.Unlock()
	defer Reset()

	if got := TopN(2); got != "b:4ms, a:1.5ms" {
		t.Errorf("TopN(2) = %q", got)
	}
	if got := TopN(10); strings.Count(got, ",") != 2 {
		t.Errorf("TopN(10) = %q, expected 3 entries", got)
	}
	if got := TopN(-1); got != "" {
		t.Errorf("TopN(-1) = %q, expected empty", got)
	}
}
