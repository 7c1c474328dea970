package database

import (
	"database/sql"
	"log"
	"sync"

	"github.com/centimehq/centime/config"
	"github.com/centimehq/centime/internal/cache"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		ca, errCache := cache.NewCache()
		if errCache != nil {
			err = errCache
			return
		}
		instance = &Datasource{Conn: con, Cache: ca}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}
	err = createHolderTable(db)
	if err != nil {
		return nil, err
	}
	err = createInstitutionTable(db)
	if err != nil {
		return nil, err
	}
	err = createPatternRuleTable(db)
	if err != nil {
		return nil, err
	}
	err = createTransactionTable(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// createHolderTable creates a PostgreSQL table for the Holder struct
func createHolderTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS holders (
			id SERIAL PRIMARY KEY,
			holder_id TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			total_balance NUMERIC(19,4) NOT NULL DEFAULT 0,
			currency_code TEXT NOT NULL DEFAULT 'INR',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating holders table: %v", err)
	}
	return err
}

// createInstitutionTable creates a PostgreSQL table for the Institution struct
func createInstitutionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS institutions (
			id SERIAL PRIMARY KEY,
			institution_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL UNIQUE,
			sender_identity TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating institutions table: %v", err)
	}
	return err
}

// createPatternRuleTable creates a PostgreSQL table for the PatternRule struct
func createPatternRuleTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS pattern_rules (
			id SERIAL PRIMARY KEY,
			rule_id TEXT NOT NULL UNIQUE,
			institution_id TEXT NOT NULL REFERENCES institutions(institution_id),
			kind TEXT NOT NULL CHECK (kind IN ('CREDIT', 'DEBIT')),
			match_expression TEXT NOT NULL,
			date_layout TEXT,
			position INT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating pattern_rules table: %v", err)
	}
	return err
}

// createTransactionTable creates a PostgreSQL table for the Transaction struct.
// The unique index on external_id is what makes ingestion idempotent; the
// pre-insert existence check is only an optimization on top of it.
func createTransactionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			id SERIAL PRIMARY KEY,
			transaction_id TEXT NOT NULL UNIQUE,
			holder_id TEXT NOT NULL REFERENCES holders(holder_id),
			institution_id TEXT REFERENCES institutions(institution_id),
			external_id TEXT UNIQUE,
			amount NUMERIC(19,4) NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('CREDIT', 'DEBIT')),
			status TEXT NOT NULL CHECK (status IN ('PENDING', 'CONFIRMED', 'DISCARDED')),
			description TEXT,
			account_last_4 TEXT,
			transaction_date TIMESTAMP NOT NULL,
			raw_body TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating transactions table: %v", err)
	}
	return err
}
