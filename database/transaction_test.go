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

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/centimehq/centime/internal/apierror"
	"github.com/centimehq/centime/model"
)

type mockCache struct {
	data map[string]interface{}
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]interface{})}
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Get(ctx context.Context, key string, data interface{}) error {
	if v, ok := m.data[key]; ok {
		switch d := data.(type) {
		case *[]model.Institution:
			*d = v.([]model.Institution)
		}
		return nil
	}
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func pendingRow(id string, amount string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"transaction_id", "holder_id", "institution_id", "external_id", "amount",
		"kind", "status", "description", "account_last_4", "transaction_date", "created_at",
	}).AddRow(id, "hld_1", "ins_1", "msg-1", amount, model.KindDebit, model.StatusPending, "Zomato UPI", "1234", time.Now(), time.Now())
}

func TestCreateTransaction_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	txn := &model.Transaction{
		TransactionID:   "txn_1",
		HolderID:        "hld_1",
		InstitutionID:   "ins_1",
		ExternalID:      "msg-1",
		Amount:          decimal.RequireFromString("1500.00"),
		Kind:            model.KindDebit,
		Status:          model.StatusPending,
		Description:     "Zomato UPI",
		AccountLast4:    "1234",
		TransactionDate: time.Now(),
		CreatedAt:       time.Now(),
	}

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.TransactionID, txn.HolderID, nullString(txn.InstitutionID), nullString(txn.ExternalID), txn.Amount, txn.Kind, txn.Status, txn.Description, txn.AccountLast4, txn.TransactionDate, txn.RawBody, txn.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	result, err := ds.CreateTransaction(context.Background(), txn)
	assert.NoError(t, err)
	assert.Equal(t, txn, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaction_DuplicateExternalID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO transactions").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "transactions_external_id_key"})

	_, err = ds.CreateTransaction(context.Background(), &model.Transaction{
		TransactionID: "txn_1",
		HolderID:      "hld_1",
		ExternalID:    "msg-1",
		Amount:        decimal.RequireFromString("10.00"),
		Kind:          model.KindCredit,
		Status:        model.StatusPending,
	})
	assert.Error(t, err)

	var apiErr apierror.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionExistsByExternalID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("msg-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := ds.TransactionExistsByExternalID(context.Background(), "msg-1")
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmTransaction_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM transactions (.+) FOR UPDATE").
		WithArgs("txn_1").
		WillReturnRows(pendingRow("txn_1", "1500.00"))
	mock.ExpectExec("UPDATE transactions").
		WithArgs("txn_1", model.StatusConfirmed, decimal.RequireFromString("1500.00"), "Zomato UPI").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE holders").
		WithArgs("hld_1", decimal.RequireFromString("-1500.00")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txn, err := ds.ConfirmTransaction(context.Background(), "txn_1", model.TransactionOverrides{})
	assert.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, txn.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmTransaction_WithOverrides(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	amount := decimal.RequireFromString("1600.00")
	description := "Dinner"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM transactions (.+) FOR UPDATE").
		WithArgs("txn_1").
		WillReturnRows(pendingRow("txn_1", "1500.00"))
	mock.ExpectExec("UPDATE transactions").
		WithArgs("txn_1", model.StatusConfirmed, amount, description).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE holders").
		WithArgs("hld_1", amount.Neg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txn, err := ds.ConfirmTransaction(context.Background(), "txn_1", model.TransactionOverrides{
		Amount:      &amount,
		Description: &description,
	})
	assert.NoError(t, err)
	assert.True(t, txn.Amount.Equal(amount))
	assert.Equal(t, description, txn.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmTransaction_AlreadyConfirmed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	confirmed := sqlmock.NewRows([]string{
		"transaction_id", "holder_id", "institution_id", "external_id", "amount",
		"kind", "status", "description", "account_last_4", "transaction_date", "created_at",
	}).AddRow("txn_1", "hld_1", "ins_1", "msg-1", "1500.00", model.KindDebit, model.StatusConfirmed, "Zomato UPI", "1234", time.Now(), time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM transactions (.+) FOR UPDATE").
		WithArgs("txn_1").
		WillReturnRows(confirmed)
	mock.ExpectRollback()

	_, err = ds.ConfirmTransaction(context.Background(), "txn_1", model.TransactionOverrides{})
	assert.Error(t, err)
	assert.True(t, apierror.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmTransaction_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM transactions (.+) FOR UPDATE").
		WithArgs("txn_missing").
		WillReturnRows(sqlmock.NewRows([]string{"transaction_id"}))
	mock.ExpectRollback()

	_, err = ds.ConfirmTransaction(context.Background(), "txn_missing", model.TransactionOverrides{})
	assert.Error(t, err)
	assert.True(t, apierror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmTransaction_HolderMissingRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM transactions (.+) FOR UPDATE").
		WithArgs("txn_1").
		WillReturnRows(pendingRow("txn_1", "1500.00"))
	mock.ExpectExec("UPDATE transactions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE holders").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = ds.ConfirmTransaction(context.Background(), "txn_1", model.TransactionOverrides{})
	assert.Error(t, err)
	assert.True(t, apierror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscardTransaction_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM transactions (.+) FOR UPDATE").
		WithArgs("txn_1").
		WillReturnRows(pendingRow("txn_1", "1500.00"))
	mock.ExpectExec("UPDATE transactions").
		WithArgs("txn_1", model.StatusDiscarded).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txn, err := ds.DiscardTransaction(context.Background(), "txn_1")
	assert.NoError(t, err)
	assert.Equal(t, model.StatusDiscarded, txn.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscardTransaction_AlreadyDiscarded(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	discarded := sqlmock.NewRows([]string{
		"transaction_id", "holder_id", "institution_id", "external_id", "amount",
		"kind", "status", "description", "account_last_4", "transaction_date", "created_at",
	}).AddRow("txn_1", "hld_1", "ins_1", "msg-1", "1500.00", model.KindDebit, model.StatusDiscarded, "Zomato UPI", "1234", time.Now(), time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM transactions (.+) FOR UPDATE").
		WithArgs("txn_1").
		WillReturnRows(discarded)
	mock.ExpectRollback()

	_, err = ds.DiscardTransaction(context.Background(), "txn_1")
	assert.Error(t, err)
	assert.True(t, apierror.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConfirmedTransaction_AppliesBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	txn := &model.Transaction{
		TransactionID:   "txn_manual",
		HolderID:        "hld_1",
		Amount:          decimal.RequireFromString("250.00"),
		Kind:            model.KindCredit,
		Description:     "Manual Entry",
		TransactionDate: time.Now(),
		CreatedAt:       time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE holders").
		WithArgs("hld_1", txn.Amount).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := ds.CreateConfirmedTransaction(context.Background(), txn)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPendingTransactions(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("hld_1").
		WillReturnRows(pendingRow("txn_1", "1500.00"))

	transactions, err := ds.GetPendingTransactions(context.Background(), "hld_1")
	assert.NoError(t, err)
	assert.Len(t, transactions, 1)
	assert.Equal(t, "txn_1", transactions[0].TransactionID)
	assert.True(t, transactions[0].Amount.Equal(decimal.RequireFromString("1500.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConfirmedTransactions_PassesLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("hld_1", 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"transaction_id", "holder_id", "institution_id", "external_id", "amount",
			"kind", "status", "description", "account_last_4", "transaction_date", "created_at",
		}))

	transactions, err := ds.GetConfirmedTransactions(context.Background(), "hld_1", 50)
	assert.NoError(t, err)
	assert.Empty(t, transactions)
	assert.NoError(t, mock.ExpectationsWereMet())
}
