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
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/centimehq/centime/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Transaction methods

func (m *MockDataSource) CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockDataSource) CreateConfirmedTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockDataSource) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockDataSource) TransactionExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	args := m.Called(ctx, externalID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDataSource) ConfirmTransaction(ctx context.Context, id string, overrides model.TransactionOverrides) (*model.Transaction, error) {
	args := m.Called(ctx, id, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockDataSource) DiscardTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockDataSource) GetPendingTransactions(ctx context.Context, holderID string) ([]model.Transaction, error) {
	args := m.Called(ctx, holderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (m *MockDataSource) GetConfirmedTransactions(ctx context.Context, holderID string, limit int) ([]model.Transaction, error) {
	args := m.Called(ctx, holderID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

// Institution methods

func (m *MockDataSource) CreateInstitution(ctx context.Context, institution model.Institution) (model.Institution, error) {
	args := m.Called(ctx, institution)
	return args.Get(0).(model.Institution), args.Error(1)
}

func (m *MockDataSource) UpsertInstitution(ctx context.Context, institution model.Institution) (model.Institution, error) {
	args := m.Called(ctx, institution)
	return args.Get(0).(model.Institution), args.Error(1)
}

func (m *MockDataSource) GetInstitution(ctx context.Context, id string) (*model.Institution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Institution), args.Error(1)
}

func (m *MockDataSource) GetAllInstitutions(ctx context.Context) ([]model.Institution, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Institution), args.Error(1)
}

// Holder methods

func (m *MockDataSource) CreateHolder(ctx context.Context, holder model.Holder) (model.Holder, error) {
	args := m.Called(ctx, holder)
	return args.Get(0).(model.Holder), args.Error(1)
}

func (m *MockDataSource) GetHolder(ctx context.Context, id string) (*model.Holder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Holder), args.Error(1)
}

func (m *MockDataSource) GetHolderByEmail(ctx context.Context, email string) (*model.Holder, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Holder), args.Error(1)
}

func (m *MockDataSource) GetAllHolders(ctx context.Context) ([]model.Holder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Holder), args.Error(1)
}
