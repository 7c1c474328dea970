package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusDiscarded = "DISCARDED"

	KindCredit = "CREDIT"
	KindDebit  = "DEBIT"
)

type Transaction struct {
	ID              int64           `json:"-"`
	TransactionID   string          `json:"transaction_id"`
	HolderID        string          `json:"holder_id"`
	InstitutionID   string          `json:"institution_id,omitempty"`
	ExternalID      string          `json:"external_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Kind            string          `json:"kind"`
	Status          string          `json:"status"`
	Description     string          `json:"description"`
	AccountLast4    string          `json:"account_last_4,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
	RawBody         string          `json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransactionOverrides carries the optional field edits a caller may apply
// while confirming a pending transaction.
type TransactionOverrides struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// SignedAmount returns the amount with the sign implied by the transaction
// kind: positive for credits, negative for debits.
func (transaction *Transaction) SignedAmount() decimal.Decimal {
	if transaction.Kind == KindDebit {
		return transaction.Amount.Neg()
	}
	return transaction.Amount
}

// IsTerminal reports whether the transaction has reached a final state.
// Terminal transactions are never revived.
func (transaction *Transaction) IsTerminal() bool {
	return transaction.Status == StatusConfirmed || transaction.Status == StatusDiscarded
}

func (transaction *Transaction) ToJSON() ([]byte, error) {
	return json.Marshal(transaction)
}
