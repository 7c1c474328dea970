package model

import "github.com/shopspring/decimal"

// RecordManualTransaction is the request body for a manual transaction entry.
// Amounts stay decimal from the wire to the ledger.
type RecordManualTransaction struct {
	HolderID        string          `json:"holder_id"`
	Amount          decimal.Decimal `json:"amount"`
	Kind            string          `json:"kind"`
	Description     string          `json:"description"`
	AccountLast4    string          `json:"account_last_4"`
	TransactionDate string          `json:"transaction_date"`
}

// ConfirmTransaction is the request body for confirming a pending
// transaction. Both fields are optional edits.
type ConfirmTransaction struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
}

// IngestMessages is the request body for pushing a batch of raw messages
// through the pipeline directly, without a mailbox sync.
type IngestMessages struct {
	HolderID string        `json:"holder_id"`
	Messages []MailMessage `json:"messages"`
}

type MailMessage struct {
	ID     string `json:"id"`
	Sender string `json:"sender"`
	Body   string `json:"body"`
}
