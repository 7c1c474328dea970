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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/centimehq/centime"
	"github.com/centimehq/centime/config"
	redis_db "github.com/centimehq/centime/internal/redis-db"
)

// processMailSync handles a mail:sync task: it pulls and ingests one holder's
// unread mail. Errors are returned so asynq retries up to the configured
// attempts; ingestion itself is idempotent, so a retry never duplicates a
// transaction.
func (b *centimeInstance) processMailSync(ctx context.Context, t *asynq.Task) error {
	var payload centime.MailSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logrus.Error(err)
		return err
	}

	summary, err := b.centime.SyncMailbox(ctx, payload.HolderID)
	if err != nil {
		logrus.Infof("Mail sync for %s pushed back for retry due to error: %v", payload.HolderID, err)
		return err
	}

	log.Printf(" [*] Mailbox synced for %s: %d created, %d skipped", payload.HolderID, summary.Created, summary.Skipped)
	return nil
}

// processMailPoll fans out a mail:sync task per holder.
func (b *centimeInstance) processMailPoll(ctx context.Context, _ *asynq.Task) error {
	return b.centime.SchedulePolls(ctx)
}

func initializeQueues() map[string]int {
	cfg, err := config.Fetch()
	if err != nil {
		log.Printf("Error fetching config, using defaults: %v", err)
		return nil
	}

	return map[string]int{cfg.Queue.Name: 1}
}

func initializeWorkerServer(conf *config.Configuration, queues map[string]int) (*asynq.Server, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisOption.Addr,
			Password: redisOption.Password,
			DB:       redisOption.DB,
		},
		asynq.Config{
			Concurrency: 1,
			Queues:      queues,
		},
	), nil
}

func initializeTaskHandlers(b *centimeInstance, mux *asynq.ServeMux) {
	mux.HandleFunc(centime.TypeMailSync, b.processMailSync)
	mux.HandleFunc(centime.TypeMailPoll, b.processMailPoll)
}

// initializeScheduler registers the periodic mailbox poll with the interval
// from configuration.
func initializeScheduler(conf *config.Configuration) (*asynq.Scheduler, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisOption.Addr,
			Password: redisOption.Password,
			DB:       redisOption.DB,
		},
		nil,
	)

	_, err = scheduler.Register(conf.Mail.PollInterval, asynq.NewTask(centime.TypeMailPoll, nil), asynq.Queue(conf.Queue.Name))
	if err != nil {
		return nil, fmt.Errorf("error registering mail poll: %v", err)
	}

	return scheduler, nil
}

// workerCommands defines the "workers" command to start worker processes.
// The workers run the periodic mailbox poll and the per-holder sync tasks.
func workerCommands(b *centimeInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start centime workers",
		Run: func(cmd *cobra.Command, args []string) {
			conf, err := config.Fetch()
			if err != nil {
				log.Fatal("Error fetching config:", err)
			}

			queues := initializeQueues()

			srv, err := initializeWorkerServer(conf, queues)
			if err != nil {
				log.Fatal(err)
			}

			mux := asynq.NewServeMux()
			initializeTaskHandlers(b, mux)

			scheduler, err := initializeScheduler(conf)
			if err != nil {
				log.Fatal(err)
			}

			go func() {
				if err := scheduler.Run(); err != nil {
					log.Fatalf("could not run scheduler: %v", err)
				}
			}()

			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run worker server: %v", err)
			}
		},
	}
	return cmd
}
