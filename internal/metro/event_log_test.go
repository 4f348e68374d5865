package metro

import (
	"strings"
	"testing"
)

func TestEventLog_FilterAndCount(t *testing.T) {
	el := NewEventLog(false, 0)
	el.Add(1, "S0", catStation, "spawn", "circle", 10)
	el.Add(2, "S0", catPassenger, "spawn", "square", 1)
	el.Add(5, "L0T0", catPassenger, "deliver", "S1 square", 1)
	el.AddVerbose(6, "L0T0", catTrain, "depart", "S1→S0", 0)

	if n := len(el.Entries()); n != 3 {
		t.Fatalf("expected verbose entry to be dropped, got %d entries", n)
	}
	if n := el.Count(catPassenger, ""); n != 2 {
		t.Fatalf("expected 2 passenger entries, got %d", n)
	}
	if n := len(el.FilterSubject("S0")); n != 2 {
		t.Fatalf("expected 2 entries for S0, got %d", n)
	}
	if n := len(el.FilterTickRange(2, 5)); n != 2 {
		t.Fatalf("expected 2 entries in T=2..5, got %d", n)
	}
	last, ok := el.LastOf(catPassenger, "")
	if !ok || last.Key != "deliver" {
		t.Fatalf("expected last passenger event to be deliver, got %+v", last)
	}
	if !el.HasEntry(catPassenger, "deliver", "S1") || el.HasEntry(catPassenger, "deliver", "S9") {
		t.Fatal("HasEntry substring match wrong")
	}
	if !strings.Contains(el.Format(), "[T=0005] L0T0") {
		t.Fatalf("unexpected format:\n%s", el.Format())
	}
}

func TestEventLog_LimitKeepsNewest(t *testing.T) {
	el := NewEventLog(false, 10)
	for i := 0; i < 100; i++ {
		el.Add(i, "--", catLine, "tick", "", float64(i))
	}
	if n := len(el.Entries()); n > 20 {
		t.Fatalf("expected at most 20 retained entries, got %d", n)
	}
	recent := el.Recent(3)
	if len(recent) != 3 || recent[2].Tick != 99 || recent[0].Tick != 97 {
		t.Fatalf("unexpected recent entries %+v", recent)
	}
}

func TestEventLog_NilIsSafe(t *testing.T) {
	var el *EventLog
	el.Add(1, "--", catLine, "x", "", 0)
	el.AddVerbose(1, "--", catLine, "x", "", 0)
}
