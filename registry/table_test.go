package registry

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnHandleEvent(e Event) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	h := table.Create("test")
	if h == 0 {
		t.Fatal("expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok || val != "test" {
		t.Fatalf("Get: got %v, %v", val, ok)
	}

	if !table.Retain(h) {
		t.Fatal("Retain failed")
	}
	if count, _ := table.RefCount(h); count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}

	table.Release(h)
	table.Release(h)
	if table.Len() != 0 {
		t.Fatalf("expected empty table, Len() = %d", table.Len())
	}
}

func TestTable_ObserverSequence(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	h := table.Create("v")
	table.Retain(h)
	table.Release(h)
	table.Release(h)

	want := []EventType{EventCreated, EventRetained, EventReleased, EventReleased, EventDestroyed}
	if len(obs.events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(obs.events))
	}
	for i, typ := range want {
		if obs.events[i].Type != typ {
			t.Fatalf("event %d: expected type %d, got %d", i, typ, obs.events[i].Type)
		}
	}

	// Counts ride the events: the retained event carries the
	// post-increment count, the final released event carries zero, and
	// the destroyed event carries the value.
	if obs.events[1].Count != 2 {
		t.Fatalf("expected count 2 on retain, got %d", obs.events[1].Count)
	}
	if obs.events[3].Count != 0 {
		t.Fatalf("expected count 0 on final release, got %d", obs.events[3].Count)
	}
	if obs.events[4].Value != "v" {
		t.Fatalf("expected destroyed event to carry the value, got %v", obs.events[4].Value)
	}
}

func TestTable_Set(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}

	h := table.Create("old")
	table.Retain(h)
	table.Subscribe(obs)

	if !table.Set(h, "new") {
		t.Fatal("Set failed")
	}

	// The update is visible through the handle however many units of
	// the share are out.
	val, ok := table.Get(h)
	if !ok || val != "new" {
		t.Fatalf("Get after Set: got %v, %v", val, ok)
	}
	if count, _ := table.RefCount(h); count != 2 {
		t.Fatalf("Set changed the count: %d", count)
	}

	if len(obs.events) != 1 || obs.events[0].Type != EventUpdated {
		t.Fatalf("expected a single updated event, got %+v", obs.events)
	}
	if obs.events[0].Value != "new" {
		t.Fatalf("expected updated event to carry the new value, got %v", obs.events[0].Value)
	}
	if obs.events[0].Count != 2 {
		t.Fatalf("expected updated event to carry count 2, got %d", obs.events[0].Count)
	}

	if table.Set(99, "x") {
		t.Fatal("Set of unknown handle must fail")
	}

	table.Release(h)
	table.Release(h)
}

func TestTable_Unsubscribe(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	table.Create("a")
	table.Unsubscribe(obs)
	table.Create("b")

	if len(obs.events) != 1 {
		t.Fatalf("expected 1 event after Unsubscribe, got %d", len(obs.events))
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	table.Create(d)
	table.Create("b")

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if d.count != 1 {
		t.Fatalf("expected teardown of surviving entry, got %d", d.count)
	}

	if h := table.Create("late"); h != 0 {
		t.Fatal("expected Create to fail after Close")
	}
}

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	table := NewTable()
	table.Subscribe(NewLogObserver(zap.New(core)))

	h := table.Create("v")
	table.Release(h)

	// created, released, destroyed
	if logs.Len() != 3 {
		t.Fatalf("expected 3 log entries, got %d", logs.Len())
	}

	first := logs.All()[0].ContextMap()
	if first["event"] != "created" {
		t.Fatalf("expected created event, got %v", first["event"])
	}
	if first["handle"] != uint32(h) {
		t.Fatalf("expected handle %d, got %v", h, first["handle"])
	}
}
