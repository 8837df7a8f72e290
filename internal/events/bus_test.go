package events

import (
	"testing"

	"vocaboplay/internal/models"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()

	var first, second []int64
	bus.Subscribe(func(e ProgressEvent) { first = append(first, e.StudentID) })
	bus.Subscribe(func(e ProgressEvent) { second = append(second, e.StudentID) })

	bus.Publish(ProgressEvent{StudentID: 1, Snapshot: models.ProgressSnapshot{XP: 50}})
	bus.Publish(ProgressEvent{StudentID: 2})

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected both subscribers to see 2 events, got %d and %d", len(first), len(second))
	}
	if first[0] != 1 || first[1] != 2 {
		t.Errorf("events out of order: %v", first)
	}
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()

	var count int
	unsubscribe := bus.Subscribe(func(ProgressEvent) { count++ })

	bus.Publish(ProgressEvent{StudentID: 1})
	unsubscribe()
	bus.Publish(ProgressEvent{StudentID: 1})

	if count != 1 {
		t.Errorf("expected 1 delivery after unsubscribe, got %d", count)
	}
}

func TestBusCarriesSnapshotPayload(t *testing.T) {
	bus := NewBus()

	var got models.ProgressSnapshot
	bus.Subscribe(func(e ProgressEvent) { got = e.Snapshot })

	bus.Publish(ProgressEvent{
		StudentID: 3,
		Snapshot: models.ProgressSnapshot{
			Level:        2,
			XP:           150,
			Achievements: models.Achievements{FirstGame: true},
		},
	})

	if got.Level != 2 || !got.Achievements.FirstGame {
		t.Errorf("payload not carried through: %+v", got)
	}
}
