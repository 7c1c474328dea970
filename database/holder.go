package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/centimehq/centime/internal/apierror"
	"github.com/centimehq/centime/model"
)

func (d Datasource) CreateHolder(ctx context.Context, holder model.Holder) (model.Holder, error) {
	holder.CreatedAt = time.Now()
	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO holders (holder_id, email, total_balance, currency_code, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, holder.HolderID, holder.Email, holder.TotalBalance, holder.CurrencyCode, holder.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return model.Holder{}, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Holder with email '%s' already exists", holder.Email), err)
		}
		return model.Holder{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create holder", err)
	}

	return holder, nil
}

func (d Datasource) GetHolder(ctx context.Context, id string) (*model.Holder, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT holder_id, email, total_balance, currency_code, created_at
		FROM holders
		WHERE holder_id = $1
	`, id)

	return scanHolder(row, fmt.Sprintf("Holder with ID '%s' not found", id))
}

func (d Datasource) GetHolderByEmail(ctx context.Context, email string) (*model.Holder, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT holder_id, email, total_balance, currency_code, created_at
		FROM holders
		WHERE email = $1
	`, email)

	return scanHolder(row, fmt.Sprintf("Holder with email '%s' not found", email))
}

func (d Datasource) GetAllHolders(ctx context.Context) ([]model.Holder, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT holder_id, email, total_balance, currency_code, created_at
		FROM holders
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve holders", err)
	}
	defer rows.Close()

	var holders []model.Holder
	for rows.Next() {
		holder := model.Holder{}
		err = rows.Scan(&holder.HolderID, &holder.Email, &holder.TotalBalance, &holder.CurrencyCode, &holder.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan holder data", err)
		}
		holders = append(holders, holder)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over holders", err)
	}

	return holders, nil
}

func scanHolder(row *sql.Row, notFoundMsg string) (*model.Holder, error) {
	holder := &model.Holder{}
	err := row.Scan(&holder.HolderID, &holder.Email, &holder.TotalBalance, &holder.CurrencyCode, &holder.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, notFoundMsg, err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve holder", err)
	}
	return holder, nil
}
