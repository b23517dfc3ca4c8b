package events

import "testing"

func TestBusFanOut(t *testing.T) {
	b := NewBus()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish(Event{Type: SlotStarted, SlotID: "s1"})

	for i, ch := range []<-chan Event{a, c} {
		select {
		case evt := <-ch:
			if evt.Type != SlotStarted || evt.SlotID != "s1" {
				t.Fatalf("sub %d got %+v", i, evt)
			}
		default:
			t.Fatalf("sub %d got nothing", i)
		}
	}
}

func TestBusDropsWhenFull(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	for i := 0; i < 100; i++ {
		b.Publish(Event{Type: SlotFinished, Index: i})
	}
	if got := len(ch); got != cap(ch) {
		t.Fatalf("buffered = %d, want %d", got, cap(ch))
	}
	if first := <-ch; first.Index != 0 {
		t.Fatalf("first event index = %d, want 0", first.Index)
	}
}

func TestBusClose(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	b.Close()
	b.Close()
	if _, ok := <-ch; ok {
		t.Fatalf("channel still open after Close")
	}
	late := b.Subscribe()
	if _, ok := <-late; ok {
		t.Fatalf("late subscription should be closed")
	}
	b.Publish(Event{Type: SlotFailed})

	var nilBus *Bus
	nilBus.Publish(Event{})
}
