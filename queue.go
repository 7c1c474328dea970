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
	"encoding/json"
	"errors"
	"log"

	"github.com/hibiken/asynq"

	"github.com/centimehq/centime/config"
	redis_db "github.com/centimehq/centime/internal/redis-db"
)

const (
	// TypeMailSync is the asynq task type for a mailbox sync of one holder.
	TypeMailSync = "mail:sync"
	// TypeMailPoll is the periodic task that fans out a sync per holder.
	TypeMailPoll = "mail:poll"
)

// Queue represents a queue for handling background tasks.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// MailSyncPayload is the payload carried by a mail:sync task.
type MailSyncPayload struct {
	HolderID string `json:"holder_id"`
}

// NewQueue initializes a new Queue instance with the provided configuration.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// EnqueueMailSync enqueues a mailbox sync task for a holder. The task ID is
// the holder ID, so a holder whose sync is still waiting is not enqueued
// twice.
func (q *Queue) EnqueueMailSync(ctx context.Context, holderID string) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(MailSyncPayload{HolderID: holderID})
	if err != nil {
		return err
	}

	taskOptions := []asynq.Option{
		asynq.TaskID(holderID),
		asynq.Queue(cfg.Queue.Name),
		asynq.MaxRetry(cfg.Queue.MaxRetryAttempts),
	}
	task := asynq.NewTask(TypeMailSync, payload, taskOptions...)
	info, err := q.Client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// A sync for this holder is already waiting.
		return nil
	}
	if err != nil {
		log.Println(err, info)
		return err
	}
	log.Printf(" [*] Successfully enqueued mail sync: %+v", holderID)
	return nil
}
