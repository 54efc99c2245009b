package interfaces

import "context"

type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return nil
}

var _ EventPublisher = NopPublisher{}
