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
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/centimehq/centime/config"
	"github.com/centimehq/centime/extraction"
	"github.com/centimehq/centime/internal/apierror"
	"github.com/centimehq/centime/mail"
	"github.com/centimehq/centime/model"
)

// IngestionSummary reports what a batch of messages produced.
type IngestionSummary struct {
	Created    int      `json:"created"`
	Skipped    int      `json:"skipped"`
	CreatedIDs []string `json:"created_ids,omitempty"`

	ingestedMessages map[string]struct{}
}

func (s *IngestionSummary) markIngested(messageID string) {
	if messageID == "" {
		return
	}
	if s.ingestedMessages == nil {
		s.ingestedMessages = make(map[string]struct{})
	}
	s.ingestedMessages[messageID] = struct{}{}
}

// wasIngested reports whether the message with this ID produced a record in
// the batch.
func (s *IngestionSummary) wasIngested(messageID string) bool {
	_, ok := s.ingestedMessages[messageID]
	return ok
}

// IngestMessages runs a batch of messages through the extraction pipeline for
// one holder. Each message is processed in isolation: a message that is a
// duplicate, matches no institution, or matches no rule is counted as skipped
// and never stops the batch. Re-running the same batch is idempotent because
// the message ID is persisted as the transaction's external ID under a unique
// index.
func (c *Centime) IngestMessages(ctx context.Context, holderID string, messages []mail.Message) (*IngestionSummary, error) {
	institutions, err := c.datasource.GetAllInstitutions(ctx)
	if err != nil {
		return nil, err
	}

	summary := &IngestionSummary{}
	for _, message := range messages {
		txn, err := c.processMessage(ctx, holderID, institutions, message)
		if err != nil {
			if apierror.IsConflict(err) {
				summary.Skipped++
				continue
			}
			logrus.Warnf("ingestion: message %s for holder %s failed: %v", message.ID, holderID, err)
			summary.Skipped++
			continue
		}
		if txn == nil {
			summary.Skipped++
			continue
		}
		summary.Created++
		summary.CreatedIDs = append(summary.CreatedIDs, txn.TransactionID)
		summary.markIngested(message.ID)
	}

	return summary, nil
}

// processMessage turns one message into a pending transaction. A nil, nil
// return means the message was legitimately skipped.
func (c *Centime) processMessage(ctx context.Context, holderID string, institutions []model.Institution, message mail.Message) (*model.Transaction, error) {
	if message.ID != "" {
		exists, err := c.datasource.TransactionExistsByExternalID(ctx, message.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, nil
		}
	}

	institution := resolveInstitution(institutions, message.Sender)
	if institution == nil {
		return nil, nil
	}

	candidate, err := extraction.Extract(message.Body, institution.Rules)
	if err != nil {
		if errors.Is(err, extraction.ErrNoMatch) {
			return nil, nil
		}
		return nil, err
	}

	txn := &model.Transaction{
		TransactionID:   model.GenerateUUIDWithSuffix("txn"),
		HolderID:        holderID,
		InstitutionID:   institution.InstitutionID,
		ExternalID:      message.ID,
		Amount:          candidate.Amount,
		Kind:            candidate.Kind,
		Status:          model.StatusPending,
		Description:     candidate.Description,
		AccountLast4:    candidate.AccountLast4,
		TransactionDate: candidate.Date,
		RawBody:         message.Body,
		CreatedAt:       time.Now(),
	}

	return c.datasource.CreateTransaction(ctx, txn)
}

// resolveInstitution finds the first institution, in creation order, whose
// sender identity appears in the observed sender header.
func resolveInstitution(institutions []model.Institution, sender string) *model.Institution {
	for i := range institutions {
		if institutions[i].MatchesSender(sender) {
			return &institutions[i]
		}
	}
	return nil
}

// SchedulePolls enqueues a mailbox sync for every holder. Called by the
// periodic poll task.
func (c *Centime) SchedulePolls(ctx context.Context) error {
	holders, err := c.datasource.GetAllHolders(ctx)
	if err != nil {
		return err
	}

	if cfg, err := config.Fetch(); err == nil {
		if info, err := c.queue.Inspector.GetQueueInfo(cfg.Queue.Name); err == nil {
			logrus.Infof("ingestion: queue %s holds %d pending tasks before fan-out", cfg.Queue.Name, info.Pending)
		}
	}

	for _, holder := range holders {
		if err := c.queue.EnqueueMailSync(ctx, holder.HolderID); err != nil {
			logrus.Warnf("ingestion: failed to schedule sync for holder %s: %v", holder.HolderID, err)
		}
	}
	return nil
}

// NotifyMailReceived reacts to a provider push notification by scheduling a
// mailbox sync for the holder that owns the mailbox.
func (c *Centime) NotifyMailReceived(ctx context.Context, emailAddress string) error {
	holder, err := c.datasource.GetHolderByEmail(ctx, emailAddress)
	if err != nil {
		return err
	}
	return c.queue.EnqueueMailSync(ctx, holder.HolderID)
}

// SyncMailbox pulls unread messages for a holder, ingests them, then marks
// the messages that produced a record as read. Everything else stays unread;
// a skipped message is not ours to touch. Marking is best effort: a failure
// only means the message will be listed and skipped as a duplicate next
// sync. A batch is capped at the configured mail batch size; the remainder
// is picked up by the next poll.
func (c *Centime) SyncMailbox(ctx context.Context, holderID string) (*IngestionSummary, error) {
	messages, err := c.mail.ListUnread(ctx)
	if err != nil {
		return nil, err
	}

	if cfg, err := config.Fetch(); err == nil && cfg.Mail.BatchSize > 0 && len(messages) > cfg.Mail.BatchSize {
		messages = messages[:cfg.Mail.BatchSize]
	}

	summary, err := c.IngestMessages(ctx, holderID, messages)
	if err != nil {
		return nil, err
	}

	for _, message := range messages {
		if !summary.wasIngested(message.ID) {
			continue
		}
		if err := c.mail.MarkRead(ctx, message.ID); err != nil {
			logrus.Warnf("ingestion: failed to mark message %s as read: %v", message.ID, err)
		}
	}

	return summary, nil
}
