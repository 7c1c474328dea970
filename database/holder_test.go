package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/centimehq/centime/internal/apierror"
	"github.com/centimehq/centime/model"
)

func TestCreateHolder_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	holder := model.Holder{
		HolderID:     "hld_1",
		Email:        "user@example.com",
		TotalBalance: decimal.Zero,
		CurrencyCode: "INR",
	}

	mock.ExpectExec("INSERT INTO holders").
		WithArgs(holder.HolderID, holder.Email, holder.TotalBalance, holder.CurrencyCode, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateHolder(context.Background(), holder)
	assert.NoError(t, err)
	assert.Equal(t, "hld_1", created.HolderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHolder_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO holders").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "holders_email_key"})

	_, err = ds.CreateHolder(context.Background(), model.Holder{
		HolderID: "hld_2",
		Email:    "user@example.com",
	})
	assert.Error(t, err)
	assert.True(t, apierror.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHolder_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT (.+) FROM holders").
		WithArgs("hld_1").
		WillReturnRows(sqlmock.NewRows([]string{"holder_id", "email", "total_balance", "currency_code", "created_at"}).
			AddRow("hld_1", "user@example.com", "2500.50", "INR", time.Now()))

	holder, err := ds.GetHolder(context.Background(), "hld_1")
	assert.NoError(t, err)
	assert.Equal(t, "user@example.com", holder.Email)
	assert.True(t, holder.TotalBalance.Equal(decimal.RequireFromString("2500.50")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHolder_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT (.+) FROM holders").
		WithArgs("hld_missing").
		WillReturnRows(sqlmock.NewRows([]string{"holder_id"}))

	_, err = ds.GetHolder(context.Background(), "hld_missing")
	assert.Error(t, err)
	assert.True(t, apierror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllHolders(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT (.+) FROM holders").
		WillReturnRows(sqlmock.NewRows([]string{"holder_id", "email", "total_balance", "currency_code", "created_at"}).
			AddRow("hld_1", "a@example.com", "0", "INR", time.Now()).
			AddRow("hld_2", "b@example.com", "10.00", "INR", time.Now()))

	holders, err := ds.GetAllHolders(context.Background())
	assert.NoError(t, err)
	assert.Len(t, holders, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
