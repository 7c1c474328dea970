package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/centimehq/centime/internal/apierror"
	"github.com/centimehq/centime/model"
)

// nullString maps an empty string to SQL NULL so the unique index on
// external_id ignores rows that never came from a message.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

const transactionColumns = `transaction_id, holder_id, COALESCE(institution_id, ''), COALESCE(external_id, ''), amount, kind, status, description, account_last_4, transaction_date, created_at`

func scanTransaction(row interface {
	Scan(dest ...interface{}) error
}, txn *model.Transaction) error {
	return row.Scan(
		&txn.TransactionID,
		&txn.HolderID,
		&txn.InstitutionID,
		&txn.ExternalID,
		&txn.Amount,
		&txn.Kind,
		&txn.Status,
		&txn.Description,
		&txn.AccountLast4,
		&txn.TransactionDate,
		&txn.CreatedAt,
	)
}

// CreateTransaction records a new pending transaction. A unique-index
// violation on external_id is surfaced as a conflict so ingestion can treat
// the message as already processed.
func (d Datasource) CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO transactions(transaction_id,holder_id,institution_id,external_id,amount,kind,status,description,account_last_4,transaction_date,raw_body,created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		txn.TransactionID, txn.HolderID, nullString(txn.InstitutionID), nullString(txn.ExternalID), txn.Amount, txn.Kind, txn.Status, txn.Description, txn.AccountLast4, txn.TransactionDate, txn.RawBody, txn.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Transaction for message '%s' already exists", txn.ExternalID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record transaction", err)
	}

	return txn, nil
}

// CreateConfirmedTransaction records a transaction that is born confirmed,
// such as a manual entry, and applies it to the holder balance inside the
// same database transaction.
func (d Datasource) CreateConfirmedTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions(transaction_id,holder_id,institution_id,external_id,amount,kind,status,description,account_last_4,transaction_date,raw_body,created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		txn.TransactionID, txn.HolderID, nullString(txn.InstitutionID), nullString(txn.ExternalID), txn.Amount, txn.Kind, model.StatusConfirmed, txn.Description, txn.AccountLast4, txn.TransactionDate, txn.RawBody, txn.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Transaction for message '%s' already exists", txn.ExternalID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record transaction", err)
	}

	txn.Status = model.StatusConfirmed
	if err := applyToBalance(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}

	return txn, nil
}

func (d Datasource) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE transaction_id = $1
	`, id)

	txn := &model.Transaction{}
	err := scanTransaction(row, txn)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transaction with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transaction", err)
	}

	return txn, nil
}

func (d Datasource) TransactionExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM transactions WHERE external_id = $1)
	`, externalID).Scan(&exists)

	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check if transaction exists", err)
	}

	return exists, nil
}

// ConfirmTransaction moves a pending transaction to CONFIRMED and applies its
// signed amount to the holder balance. The row lock, the status check, the
// status update and the balance update all happen inside one database
// transaction, so a transaction is never applied to the balance twice.
func (d Datasource) ConfirmTransaction(ctx context.Context, id string, overrides model.TransactionOverrides) (*model.Transaction, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	txn, err := lockTransactionRow(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if txn.Status == model.StatusConfirmed {
		return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Transaction with ID '%s' is already confirmed", id), nil)
	}
	if txn.Status == model.StatusDiscarded {
		return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Transaction with ID '%s' is already discarded", id), nil)
	}

	if overrides.Amount != nil {
		txn.Amount = *overrides.Amount
	}
	if overrides.Description != nil {
		txn.Description = *overrides.Description
	}
	txn.Status = model.StatusConfirmed

	_, err = tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = $2, amount = $3, description = $4
		WHERE transaction_id = $1
	`, id, txn.Status, txn.Amount, txn.Description)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update transaction status", err)
	}

	if err := applyToBalance(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}

	return txn, nil
}

// DiscardTransaction moves a pending transaction to DISCARDED. The balance is
// never touched.
func (d Datasource) DiscardTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	txn, err := lockTransactionRow(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if txn.Status == model.StatusConfirmed {
		return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Transaction with ID '%s' is already confirmed", id), nil)
	}
	if txn.Status == model.StatusDiscarded {
		return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Transaction with ID '%s' is already discarded", id), nil)
	}

	txn.Status = model.StatusDiscarded
	_, err = tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = $2
		WHERE transaction_id = $1
	`, id, txn.Status)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update transaction status", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}

	return txn, nil
}

func (d Datasource) GetPendingTransactions(ctx context.Context, holderID string) ([]model.Transaction, error) {
	return d.queryTransactions(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE holder_id = $1 AND status = 'PENDING'
		ORDER BY transaction_date DESC, id DESC
	`, holderID)
}

func (d Datasource) GetConfirmedTransactions(ctx context.Context, holderID string, limit int) ([]model.Transaction, error) {
	return d.queryTransactions(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE holder_id = $1 AND status = 'CONFIRMED'
		ORDER BY transaction_date DESC, id DESC
		LIMIT $2
	`, holderID, limit)
}

func (d Datasource) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]model.Transaction, error) {
	rows, err := d.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transactions", err)
	}
	defer rows.Close()

	var transactions []model.Transaction

	for rows.Next() {
		transaction := model.Transaction{}
		if err := scanTransaction(rows, &transaction); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan transaction data", err)
		}
		transactions = append(transactions, transaction)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over transactions", err)
	}

	return transactions, nil
}

// lockTransactionRow loads a transaction inside tx with FOR UPDATE so
// concurrent confirms and discards of the same record serialize on the row.
func lockTransactionRow(ctx context.Context, tx *sql.Tx, id string) (*model.Transaction, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE transaction_id = $1
		FOR UPDATE
	`, id)

	txn := &model.Transaction{}
	err := scanTransaction(row, txn)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transaction with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transaction", err)
	}

	return txn, nil
}

// applyToBalance adds the transaction's signed amount to the holder balance.
// Must run inside the same database transaction as the status change.
func applyToBalance(ctx context.Context, tx *sql.Tx, txn *model.Transaction) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE holders
		SET total_balance = total_balance + $2
		WHERE holder_id = $1
	`, txn.HolderID, txn.SignedAmount())
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update holder balance", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Holder with ID '%s' not found", txn.HolderID), nil)
	}

	return nil
}
