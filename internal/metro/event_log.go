package metro

import (
	"fmt"
	"strings"
)

// Event categories.
const (
	catStation   = "station"
	catPassenger = "passenger"
	catTrain     = "train"
	catLine      = "line"
)

// Event is one recorded simulation event.
type Event struct {
	Tick     int
	Subject  string  // label e.g. "S4", "L1", "L1T0", or "--" for global events
	Category string  // station, passenger, train, line
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0420] L0T0   passenger board            S2 square
func (e Event) String() string {
	return fmt.Sprintf("[T=%04d] %-6s %-9s %-10s %s",
		e.Tick, e.Subject, e.Category, e.Key, e.Value)
}

// EventLog collects structured events. It is machine-readable for tests and
// the headless runner, and feeds the viewer's event panel.
type EventLog struct {
	entries []Event
	verbose bool
	limit   int
}

// NewEventLog creates an EventLog. If verbose is true, per-departure entries
// are also recorded. A positive limit keeps only the newest entries.
func NewEventLog(verbose bool, limit int) *EventLog {
	return &EventLog{verbose: verbose, limit: limit}
}

// Add records a new entry.
func (el *EventLog) Add(tick int, subject, category, key, value string, numVal float64) {
	if el == nil {
		return
	}
	el.entries = append(el.entries, Event{
		Tick:     tick,
		Subject:  subject,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
	if el.limit > 0 && len(el.entries) > el.limit*2 {
		el.entries = append(el.entries[:0], el.entries[len(el.entries)-el.limit:]...)
	}
}

// AddVerbose records an entry only when verbose mode is on.
func (el *EventLog) AddVerbose(tick int, subject, category, key, value string, numVal float64) {
	if el == nil || !el.verbose {
		return
	}
	el.Add(tick, subject, category, key, value, numVal)
}

// Entries returns all retained entries.
func (el *EventLog) Entries() []Event {
	return el.entries
}

// Recent returns up to n of the newest entries, oldest first.
func (el *EventLog) Recent(n int) []Event {
	if n >= len(el.entries) {
		return el.entries
	}
	return el.entries[len(el.entries)-n:]
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (el *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterSubject returns entries for one station, line or train label.
func (el *EventLog) FilterSubject(label string) []Event {
	var out []Event
	for _, e := range el.entries {
		if e.Subject == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (el *EventLog) FilterTickRange(fromTick, toTick int) []Event {
	var out []Event
	for _, e := range el.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match the given category and key.
func (el *EventLog) Count(category, key string) int {
	n := 0
	for _, e := range el.entries {
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			n++
		}
	}
	return n
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (el *EventLog) LastOf(category, key string) (Event, bool) {
	for i := len(el.entries) - 1; i >= 0; i-- {
		e := el.entries[i]
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return Event{}, false
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (el *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (el *EventLog) Format() string {
	return formatEvents(el.entries)
}

// FormatRange returns a log string filtered to a tick range.
func (el *EventLog) FormatRange(fromTick, toTick int) string {
	return formatEvents(el.FilterTickRange(fromTick, toTick))
}

func formatEvents(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
