package mail

import "context"

// Message is one inbound notification as delivered by the mail provider.
// ID is the provider's stable message identifier and doubles as the
// ingestion dedup key.
type Message struct {
	ID     string
	Sender string
	Body   string
}

// Provider is the external mail collaborator. Implementations wrap a real
// mail API (Gmail, IMAP); the ingestion pipeline only depends on this
// interface.
type Provider interface {
	// ListUnread returns the unread notification messages for the mailbox
	// the provider is bound to.
	ListUnread(ctx context.Context) ([]Message, error)

	// MarkRead marks a message as processed on the provider side. Best
	// effort: ingestion does not fail when marking fails.
	MarkRead(ctx context.Context, id string) error
}
