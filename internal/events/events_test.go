package events

import (
	"context"
	"testing"
	"time"
)

func TestEventString(t *testing.T) {
	e := Event{Type: EventApplicationCreated, Payload: map[string]any{"application_id": "app-1", "n": 3}}
	if got := e.String("application_id"); got != "app-1" {
		t.Errorf("String(application_id) = %q", got)
	}
	if got := e.String("n"); got != "" {
		t.Errorf("String(n) = %q, want empty", got)
	}
	if got := e.String("missing"); got != "" {
		t.Errorf("String(missing) = %q, want empty", got)
	}
}

func TestLocalBus(t *testing.T) {
	bus := NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())

	var got []string
	if err := bus.Subscribe(ctx, StreamApplications, func(e Event) { got = append(got, e.Type) }); err != nil {
		t.Fatal(err)
	}

	_ = bus.Publish(context.Background(), StreamApplications, Event{Type: EventApplicationCreated})
	_ = bus.Publish(context.Background(), StreamCampaigns, Event{Type: EventCampaignStatusChanged})

	if len(got) != 1 || got[0] != EventApplicationCreated {
		t.Fatalf("got %v, want only application_created", got)
	}

	cancel()
	time.Sleep(10 * time.Millisecond)
	_ = bus.Publish(context.Background(), StreamApplications, Event{Type: EventApplicationStatusChanged})
	if len(got) != 1 {
		t.Errorf("handler still called after unsubscribe: %v", got)
	}
}
