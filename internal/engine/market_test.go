package engine

import (
	"testing"

	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

type recordingSink struct {
	received []types.Event
	err      error
}

func (r *recordingSink) ReceiveEvent(e types.Event) error {
	r.received = append(r.received, e)
	return r.err
}

func TestEmitAdvancesClockAndSelfNotifiesBeforeFanOut(t *testing.T) {
	t.Parallel()
	m := NewWithQuantities(testOptions(), 1000, 100, 100, 100)
	sink := &recordingSink{}
	m.AddSubscriber(sink)

	if _, err := m.LockBuy(types.A, 10, 20, "t"); err != nil {
		t.Fatalf("LockBuy: %v", err)
	}

	if m.Now() != 1 {
		t.Errorf("Now() = %d, want 1 (self-notify advances clock once)", m.Now())
	}
	if len(sink.received) != 1 {
		t.Fatalf("subscriber received %d events, want 1", len(sink.received))
	}
	if sink.received[0].Kind != types.LockedBuy {
		t.Errorf("event kind = %s, want LockedBuy", sink.received[0].Kind)
	}
}

func TestSubscribersNotifiedInInsertionOrder(t *testing.T) {
	t.Parallel()
	m := NewWithQuantities(testOptions(), 1000, 100, 100, 100)
	var order []int
	s1 := &orderedSink{id: 1, order: &order}
	s2 := &orderedSink{id: 2, order: &order}
	s3 := &orderedSink{id: 3, order: &order}
	m.AddSubscriber(s1)
	m.AddSubscriber(s2)
	m.AddSubscriber(s3)

	m.ReceiveWait()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("notify order = %v, want [1 2 3]", order)
	}
}

type orderedSink struct {
	id    int
	order *[]int
}

func (s *orderedSink) ReceiveEvent(types.Event) error {
	*s.order = append(*s.order, s.id)
	return nil
}

func TestReceiveEventNeverReEmits(t *testing.T) {
	t.Parallel()
	// Two markets mutually subscribed must not recurse: ReceiveEvent only
	// advances the receiver's own clock/tariff, it never calls emitLocked.
	m1 := NewWithQuantities(testOptions(), 1000, 100, 100, 100)
	m2 := NewWithQuantities(testOptions(), 1000, 100, 100, 100)
	m1.AddSubscriber(m2)
	m2.AddSubscriber(m1)

	m1.ReceiveWait()

	if m1.Now() != 1 {
		t.Errorf("m1.Now() = %d, want 1", m1.Now())
	}
	if m2.Now() != 1 {
		t.Errorf("m2.Now() = %d, want 1 (single delivery via fan-out, no recursion)", m2.Now())
	}
}

func TestSubscriberErrorIsLoggedNotFatal(t *testing.T) {
	t.Parallel()
	m := NewWithQuantities(testOptions(), 1000, 100, 100, 100)
	failing := &recordingSink{err: errFake}
	m.AddSubscriber(failing)

	if _, err := m.LockBuy(types.A, 10, 20, "t"); err != nil {
		t.Fatalf("LockBuy should still succeed despite subscriber error: %v", err)
	}
	if len(failing.received) != 1 {
		t.Fatalf("subscriber was still expected to be notified once, got %d", len(failing.received))
	}
}

var errFake = &fakeError{}

type fakeError struct{}

func (e *fakeError) Error() string { return "fake subscriber error" }
