package events

import (
	"testing"
	"time"
)

func TestEmitReachesSubscriber(t *testing.T) {
	bus := NewBus()
	got := make(chan Event, 1)

	bus.Subscribe(ProposalCreated, func(e Event) {
		got <- e
	})

	bus.Emit(ProposalCreated, "payload")

	select {
	case e := <-got:
		if e.Type != ProposalCreated || e.Data != "payload" {
			t.Errorf("event = %+v", e)
		}
		if e.Timestamp == 0 {
			t.Error("expected timestamp to be set")
		}
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked")
	}
}

func TestEmitOnlyMatchingType(t *testing.T) {
	bus := NewBus()
	got := make(chan Event, 2)

	bus.Subscribe(ProposalConfirmed, func(e Event) {
		got <- e
	})

	bus.Emit(ProposalCancelled, nil)
	bus.Emit(ProposalConfirmed, nil)

	select {
	case e := <-got:
		if e.Type != ProposalConfirmed {
			t.Errorf("type = %q, want confirmed", e.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked")
	}

	select {
	case e := <-got:
		t.Errorf("unexpected second event: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	got := make(chan Event, 1)

	bus.Subscribe(BoardChanged, func(e Event) {
		got <- e
	})
	bus.Unsubscribe(BoardChanged)

	bus.Emit(BoardChanged, nil)

	select {
	case <-got:
		t.Error("handler invoked after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandlerPanicDoesNotCrash(t *testing.T) {
	bus := NewBus()
	got := make(chan Event, 1)

	bus.Subscribe(RequestFailed, func(e Event) {
		panic("boom")
	})
	bus.Subscribe(RequestFailed, func(e Event) {
		got <- e
	})

	bus.Emit(RequestFailed, nil)

	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("surviving handler was never invoked")
	}
}
