package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holder is the account owner transactions and the running balance are
// tracked against. TotalBalance is owned by the ledger and only moves inside
// the same database transaction that confirms a record.
type Holder struct {
	ID           int64           `json:"-"`
	HolderID     string          `json:"holder_id"`
	Email        string          `json:"email"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	CurrencyCode string          `json:"currency_code"`
	CreatedAt    time.Time       `json:"created_at"`
}
