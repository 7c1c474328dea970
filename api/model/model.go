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
package model

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	"github.com/centimehq/centime/mail"
	"github.com/centimehq/centime/model"
)

// positiveAmount rejects zero and negative amounts before they can reach the
// ledger. A nil pointer means the field was omitted, which is fine.
func positiveAmount(value interface{}) error {
	switch amount := value.(type) {
	case decimal.Decimal:
		if !amount.IsPositive() {
			return errors.New("amount must be greater than zero")
		}
	case *decimal.Decimal:
		if amount != nil && !amount.IsPositive() {
			return errors.New("amount must be greater than zero")
		}
	default:
		return errors.New("amount must be a number")
	}
	return nil
}

func validateDateFormat(format, value string) error {
	_, err := time.Parse(format, value)
	if err != nil {
		return errors.New("please format the transaction date as 'YYYY-MM-DDTHH:MM:SS+00:00' (e.g., 2024-04-22T15:28:03+00:00)")
	}
	return nil
}

func (t *RecordManualTransaction) ValidateRecordManualTransaction() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.HolderID, validation.Required),
		validation.Field(&t.Amount, validation.By(positiveAmount)),
		validation.Field(&t.Kind, validation.Required, validation.In(model.KindCredit, model.KindDebit)),
		validation.Field(&t.TransactionDate, validation.By(func(value interface{}) error {
			if t.TransactionDate == "" {
				return nil
			}
			return validateDateFormat(time.RFC3339, t.TransactionDate)
		})),
	)
}

func (t *RecordManualTransaction) ToTransaction() *model.Transaction {
	txn := &model.Transaction{
		HolderID:     t.HolderID,
		Amount:       t.Amount,
		Kind:         t.Kind,
		Description:  t.Description,
		AccountLast4: t.AccountLast4,
	}
	if t.TransactionDate != "" {
		if date, err := time.Parse(time.RFC3339, t.TransactionDate); err == nil {
			txn.TransactionDate = date
		}
	}
	return txn
}

func (t *ConfirmTransaction) ValidateConfirmTransaction() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Amount, validation.By(positiveAmount)),
	)
}

func (t *ConfirmTransaction) ToOverrides() model.TransactionOverrides {
	return model.TransactionOverrides{Amount: t.Amount, Description: t.Description}
}

func (i *CreateInstitution) ValidateCreateInstitution() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Name, validation.Required),
		validation.Field(&i.SenderIdentity, validation.Required),
		validation.Field(&i.Rules, validation.Each(validation.By(func(value interface{}) error {
			rule, ok := value.(PatternRuleInput)
			if !ok {
				return errors.New("invalid rule")
			}
			return validation.ValidateStruct(&rule,
				validation.Field(&rule.Kind, validation.Required, validation.In(model.KindCredit, model.KindDebit)),
				validation.Field(&rule.Expression, validation.Required),
			)
		}))),
	)
}

func (i *CreateInstitution) ToInstitution() model.Institution {
	institution := model.Institution{
		Name:           i.Name,
		SenderIdentity: i.SenderIdentity,
	}
	for _, rule := range i.Rules {
		institution.Rules = append(institution.Rules, model.PatternRule{
			Kind:       rule.Kind,
			Expression: rule.Expression,
			DateLayout: rule.DateLayout,
		})
	}
	return institution
}

func (h *CreateHolder) ValidateCreateHolder() error {
	return validation.ValidateStruct(h,
		validation.Field(&h.Email, validation.Required, is.Email),
	)
}

func (h *CreateHolder) ToHolder() model.Holder {
	return model.Holder{
		Email:        h.Email,
		CurrencyCode: h.CurrencyCode,
	}
}

func (m *IngestMessages) ValidateIngestMessages() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.HolderID, validation.Required),
		validation.Field(&m.Messages, validation.Required),
	)
}

func (m *IngestMessages) ToMessages() []mail.Message {
	messages := make([]mail.Message, 0, len(m.Messages))
	for _, message := range m.Messages {
		messages = append(messages, mail.Message{ID: message.ID, Sender: message.Sender, Body: message.Body})
	}
	return messages
}

// MailPushEnvelope is the Pub/Sub style push notification posted by the
// mailbox provider when new mail arrives.
type MailPushEnvelope struct {
	Message struct {
		Data      string `json:"data"`
		MessageID string `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// MailNotification is the decoded payload inside a push envelope.
type MailNotification struct {
	EmailAddress string `json:"emailAddress"`
	HistoryID    uint64 `json:"historyId"`
}

// DecodeNotification base64-decodes and unmarshals the envelope data.
func (e *MailPushEnvelope) DecodeNotification() (*MailNotification, error) {
	if e.Message.Data == "" {
		return nil, errors.New("push envelope has no data")
	}
	raw, err := base64.StdEncoding.DecodeString(e.Message.Data)
	if err != nil {
		raw, err = base64.URLEncoding.DecodeString(e.Message.Data)
		if err != nil {
			return nil, errors.New("push envelope data is not valid base64")
		}
	}
	var notification MailNotification
	if err := json.Unmarshal(raw, &notification); err != nil {
		return nil, errors.New("push envelope data is not valid JSON")
	}
	if notification.EmailAddress == "" {
		return nil, errors.New("push notification has no email address")
	}
	return &notification, nil
}
