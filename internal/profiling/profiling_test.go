package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	Reset()

	stop := Track("test.op")
	time.Sleep(2 * time.Millisecond)
	stop()
	Track("test.op")()

	ss := Snapshot()
	if ss["test.op"] < 2*time.Millisecond {
		t.Errorf("accumulated %v, want >= 2ms", ss["test.op"])
	}

	top := TopN(5)
	if !strings.Contains(top, "test.op:") || !strings.HasSuffix(top, "/2") {
		t.Errorf("TopN output %q should include the name and call count", top)
	}

	Reset()
	if len(Snapshot()) != 0 {
		t.Error("Reset did not clear totals")
	}
}
