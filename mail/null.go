package mail

import "context"

// NullProvider is the provider used when no mailbox client is configured.
// Ingestion still works through the push endpoints; scheduled syncs simply
// find nothing to pull.
type NullProvider struct{}

func (NullProvider) ListUnread(ctx context.Context) ([]Message, error) { return nil, nil }

func (NullProvider) MarkRead(ctx context.Context, id string) error { return nil }
