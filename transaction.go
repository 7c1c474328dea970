/*
Copyright 2025 Centime Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package centime

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/centimehq/centime/internal/apierror"
	redlock "github.com/centimehq/centime/internal/lock"
	"github.com/centimehq/centime/model"
)

// DefaultHistoryLimit caps a confirmed-history listing when the caller does
// not ask for a specific size.
const DefaultHistoryLimit = 50

// ManualDescription is used for manual entries recorded without one.
const ManualDescription = "Manual Entry"

func (c *Centime) acquireLock(ctx context.Context, transactionID string) (*redlock.Locker, error) {
	locker := redlock.NewLocker(c.redis, "txn-lifecycle:"+transactionID, model.GenerateUUIDWithSuffix("loc"))
	err := locker.Lock(ctx, time.Minute)
	if err != nil {
		return nil, err
	}
	return locker, nil
}

func (c *Centime) releaseLock(ctx context.Context, locker *redlock.Locker) {
	if err := locker.Unlock(ctx); err != nil {
		logrus.Error("lock error", err)
	}
}

// ConfirmTransaction confirms a pending transaction, applying any overrides
// and moving the holder balance. A transaction already in a terminal state is
// a conflict, never a second balance application.
func (c *Centime) ConfirmTransaction(ctx context.Context, transactionID string, overrides model.TransactionOverrides) (*model.Transaction, error) {
	if overrides.Amount != nil && !overrides.Amount.IsPositive() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Amount override must be greater than zero", nil)
	}

	locker, err := c.acquireLock(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	defer c.releaseLock(ctx, locker)

	return c.datasource.ConfirmTransaction(ctx, transactionID, overrides)
}

// DiscardTransaction discards a pending transaction. The balance is never
// touched.
func (c *Centime) DiscardTransaction(ctx context.Context, transactionID string) (*model.Transaction, error) {
	locker, err := c.acquireLock(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	defer c.releaseLock(ctx, locker)

	return c.datasource.DiscardTransaction(ctx, transactionID)
}

// RecordManualTransaction records a user-entered transaction. It is born
// confirmed and applied to the balance immediately; it never carries an
// external ID, so it can never collide with an ingested message.
func (c *Centime) RecordManualTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	if txn.Kind != model.KindCredit && txn.Kind != model.KindDebit {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Kind must be CREDIT or DEBIT", nil)
	}
	if !txn.Amount.IsPositive() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Amount must be greater than zero", nil)
	}

	txn.TransactionID = model.GenerateUUIDWithSuffix("txn")
	txn.ExternalID = ""
	txn.Status = model.StatusConfirmed
	if txn.Description == "" {
		txn.Description = ManualDescription
	}
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = time.Now()
	}
	txn.CreatedAt = time.Now()

	return c.datasource.CreateConfirmedTransaction(ctx, txn)
}

func (c *Centime) GetTransaction(ctx context.Context, transactionID string) (*model.Transaction, error) {
	return c.datasource.GetTransaction(ctx, transactionID)
}

// GetPendingTransactions lists a holder's review queue, newest first.
func (c *Centime) GetPendingTransactions(ctx context.Context, holderID string) ([]model.Transaction, error) {
	return c.datasource.GetPendingTransactions(ctx, holderID)
}

// GetTransactionHistory lists a holder's confirmed transactions, newest
// first. A non-positive limit falls back to DefaultHistoryLimit.
func (c *Centime) GetTransactionHistory(ctx context.Context, holderID string, limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return c.datasource.GetConfirmedTransactions(ctx, holderID, limit)
}
