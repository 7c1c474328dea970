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

	"github.com/centimehq/centime/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	transaction // Interface for transaction-related operations
	institution // Interface for institution-related operations
	holder      // Interface for holder-related operations
}

// transaction defines methods for handling transactions and the holder balance
// they settle against.
type transaction interface {
	CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)                           // Records a new pending transaction
	CreateConfirmedTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)                  // Records a transaction and applies it to the balance in one unit
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)                                           // Retrieves a transaction by ID
	TransactionExistsByExternalID(ctx context.Context, externalID string) (bool, error)                                  // Checks if a transaction exists for a message ID
	ConfirmTransaction(ctx context.Context, id string, overrides model.TransactionOverrides) (*model.Transaction, error) // Confirms a pending transaction and moves the balance
	DiscardTransaction(ctx context.Context, id string) (*model.Transaction, error)                                       // Discards a pending transaction
	GetPendingTransactions(ctx context.Context, holderID string) ([]model.Transaction, error)                            // Retrieves pending transactions for a holder
	GetConfirmedTransactions(ctx context.Context, holderID string, limit int) ([]model.Transaction, error)               // Retrieves confirmed history for a holder
}

// institution defines methods for handling institutions and their rules.
type institution interface {
	CreateInstitution(ctx context.Context, institution model.Institution) (model.Institution, error) // Creates a new institution with its rules
	UpsertInstitution(ctx context.Context, institution model.Institution) (model.Institution, error) // Creates or replaces an institution by name
	GetInstitution(ctx context.Context, id string) (*model.Institution, error)                       // Retrieves an institution by ID
	GetAllInstitutions(ctx context.Context) ([]model.Institution, error)                             // Retrieves all institutions in creation order
}

// holder defines methods for handling holders.
type holder interface {
	CreateHolder(ctx context.Context, holder model.Holder) (model.Holder, error) // Creates a new holder
	GetHolder(ctx context.Context, id string) (*model.Holder, error)             // Retrieves a holder by ID
	GetHolderByEmail(ctx context.Context, email string) (*model.Holder, error)   // Retrieves a holder by email
	GetAllHolders(ctx context.Context) ([]model.Holder, error)                   // Retrieves all holders
}
