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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5003"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SecretKey string `json:"secret_key" envconfig:"CENTIME_SERVER_SECRET_KEY"`
	Secure    bool   `json:"secure" envconfig:"CENTIME_SERVER_SECURE"`
	Port      string `json:"port" envconfig:"CENTIME_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"CENTIME_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"CENTIME_REDIS_DNS"`
}

// MailConfig controls the ingestion side: how many unread messages a single
// sync pulls and how often the worker scheduler polls mailboxes.
type MailConfig struct {
	BatchSize    int    `json:"batch_size" envconfig:"CENTIME_MAIL_BATCH_SIZE"`
	PollInterval string `json:"poll_interval" envconfig:"CENTIME_MAIL_POLL_INTERVAL"`
}

// RateLimitConfig holds the rate limiting settings. Rate limiting is
// disabled when RequestsPerSecond is nil.
type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"CENTIME_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"CENTIME_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"CENTIME_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type QueueConfig struct {
	Name             string `json:"name" envconfig:"CENTIME_QUEUE_NAME"`
	MaxRetryAttempts int    `json:"max_retry_attempts" envconfig:"CENTIME_QUEUE_MAX_RETRY_ATTEMPTS"`
}

type Configuration struct {
	ProjectName string           `json:"project_name" envconfig:"CENTIME_PROJECT_NAME"`
	Server      ServerConfig     `json:"server"`
	DataSource  DataSourceConfig `json:"data_source"`
	Redis       RedisConfig      `json:"redis"`
	Mail        MailConfig       `json:"mail"`
	Queue       QueueConfig      `json:"queue"`
	RateLimit   RateLimitConfig  `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("centime", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called centime.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Centime Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Mail.BatchSize <= 0 {
		cnf.Mail.BatchSize = 25
	}
	if cnf.Mail.PollInterval == "" {
		cnf.Mail.PollInterval = "@every 5m"
	}
	if cnf.Queue.Name == "" {
		cnf.Queue.Name = "ingestion"
	}
	if cnf.Queue.MaxRetryAttempts <= 0 {
		cnf.Queue.MaxRetryAttempts = 3
	}

	if cnf.RateLimit.RequestsPerSecond != nil {
		if cnf.RateLimit.Burst == nil {
			burst := int(*cnf.RateLimit.RequestsPerSecond * 2)
			cnf.RateLimit.Burst = &burst
		}
		if cnf.RateLimit.CleanupIntervalSec == nil {
			cleanup := 10800
			cnf.RateLimit.CleanupIntervalSec = &cleanup
		}
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
