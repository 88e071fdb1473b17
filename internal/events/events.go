package events

import "context"

// Streams
const (
	StreamApplications  = "events:application"
	StreamCampaigns     = "events:campaign"
	StreamNotifications = "events:notification"
)

// Event types
const (
	EventApplicationCreated       = "application_created"
	EventApplicationStatusChanged = "application_status_changed"
	EventCampaignStatusChanged    = "campaign_status_changed"
	EventNotificationCreated      = "notification_created"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// String returns Payload[key] when it is a string.
func (e Event) String(key string) string {
	s, _ := e.Payload[key].(string)
	return s
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
