package events

import "context"

// StreamLeads is the pub/sub channel the UI listens on.
const StreamLeads = "events:leads"

// Event types
const (
	EventCampaignCreated   = "campaign_created"
	EventCampaignRefreshed = "campaign_refreshed"
	EventCampaignDeleted   = "campaign_deleted"
	EventRefreshFailed     = "refresh_failed"
	EventOpStateChanged    = "op_state_changed"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }

// NopSubscriber never delivers; used when no broker is configured.
type NopSubscriber struct{}

func (NopSubscriber) Subscribe(context.Context, string, func(Event)) error { return nil }
