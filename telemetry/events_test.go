package telemetry

import (
	"sync"
	"testing"
	"time"
)

// recordingEmitter captures events for assertions.
type recordingEmitter struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingEmitter) Emit(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func TestMultiEmitter_FansOutInOrder(t *testing.T) {
	a := &recordingEmitter{}
	b := &recordingEmitter{}
	m := MultiEmitter{a, b}

	ev := Event{Kind: EventCacheHit, Dependency: "reservoir", At: time.Now()}
	m.Emit(ev)

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("expected both emitters to receive the event, got %d and %d", len(a.events), len(b.events))
	}
	if a.events[0].Kind != EventCacheHit {
		t.Errorf("unexpected kind %s", a.events[0].Kind)
	}
}

func TestNopEmitter_Discards(t *testing.T) {
	// Must not panic regardless of event shape.
	NopEmitter{}.Emit(Event{})
	NopEmitter{}.Emit(Event{Kind: EventRequestOutcome, Outcome: "success"})
}

func TestEventFields_SkipsZeroValues(t *testing.T) {
	fields := eventFields(Event{Kind: EventCacheMiss, Dependency: "dep"})

	if _, ok := fields["endpoint"]; ok {
		t.Error("zero endpoint should be omitted")
	}
	if fields["dependency"] != "dep" {
		t.Errorf("dependency = %v", fields["dependency"])
	}
	if fields["event"] != string(EventCacheMiss) {
		t.Errorf("event = %v", fields["event"])
	}
}

func TestEventFields_IncludesRetryDetail(t *testing.T) {
	fields := eventFields(Event{
		Kind:       EventRetryAttempt,
		Dependency: "dep",
		Attempt:    2,
		Delay:      1500 * time.Millisecond,
		Err:        "HTTP 503",
	})

	if fields["attempt"] != 2 {
		t.Errorf("attempt = %v", fields["attempt"])
	}
	if fields["delay_ms"] != int64(1500) {
		t.Errorf("delay_ms = %v", fields["delay_ms"])
	}
	if fields["error"] != "HTTP 503" {
		t.Errorf("error = %v", fields["error"])
	}
}
