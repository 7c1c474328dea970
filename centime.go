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
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/centimehq/centime/config"
	"github.com/centimehq/centime/database"
	redis_db "github.com/centimehq/centime/internal/redis-db"
	"github.com/centimehq/centime/mail"
)

// Centime represents the main struct for the Centime application.
type Centime struct {
	queue      *Queue
	redis      redis.UniversalClient
	datasource database.IDataSource
	mail       mail.Provider
}

// NewCentime initializes a new instance of Centime with the provided database
// datasource and mail provider. It fetches the configuration and initializes
// the Redis client and the task queue.
func NewCentime(db database.IDataSource, provider mail.Provider) (*Centime, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)})
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)

	newCentime := &Centime{datasource: db, queue: newQueue, redis: redisClient.Client(), mail: provider}
	return newCentime, nil
}
