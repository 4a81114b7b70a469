package events

import "context"

// NoopPublisher drops every event. Commands use it when GRANJA_NATS_URL is
// unset, so record and configuration changes stay local.
type NoopPublisher struct{}

func (*NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (*NoopPublisher) Close() error { return nil }
