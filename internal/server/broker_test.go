package server

import (
	"encoding/json"
	"testing"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("sess-1")
	defer b.Unsubscribe("sess-1", ch)

	b.Publish("sess-1", Event{Type: EventQuestionResolved, Category: 2, Question: 4, Team: 1, Value: 1000, Correct: true})

	select {
	case data := <-ch:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshaling event: %v", err)
		}
		if ev.Type != EventQuestionResolved || ev.Value != 1000 || !ev.Correct {
			t.Errorf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected an event on the channel")
	}
}

func TestBrokerIsolatesSessions(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("sess-1")
	defer b.Unsubscribe("sess-1", ch)

	b.Publish("sess-2", Event{Type: EventBoardReady})

	select {
	case <-ch:
		t.Fatal("event leaked across sessions")
	default:
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("sess-1")
	b.Unsubscribe("sess-1", ch)
	b.Publish("sess-1", Event{Type: EventBoardReady})

	select {
	case <-ch:
		t.Fatal("received event after unsubscribe")
	default:
	}
}
