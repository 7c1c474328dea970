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
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/centimehq/centime"
	"github.com/centimehq/centime/config"
	"github.com/centimehq/centime/database"
	"github.com/centimehq/centime/mail"
)

// Centime represents the CLI application, encapsulating the root Cobra command.
type Centime struct {
	cmd *cobra.Command
}

// centimeInstance holds the service instance and its configuration so
// subcommands share one initialized runtime.
type centimeInstance struct {
	centime *centime.Centime
	cnf     *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the service instance
// before running any command.
func preRun(app *centimeInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("centime.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newCentime, err := setupCentime(cnf)
		if err != nil {
			log.Fatal(err)
		}

		app.centime = newCentime
		app.cnf = cnf

		return nil
	}
}

// setupCentime creates and initializes the service from the provided
// configuration. The mailbox client is an external collaborator; until one is
// plugged in, syncs run against the null provider and ingestion happens
// through the push endpoints.
func setupCentime(cfg *config.Configuration) (*centime.Centime, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	provider := mail.NewRetryingProvider(mail.NullProvider{}, 0)
	newCentime, err := centime.NewCentime(db, provider)
	if err != nil {
		return nil, fmt.Errorf("error creating centime: %v", err)
	}
	return newCentime, nil
}

// NewCLI creates the command-line interface for the Centime application.
func NewCLI() *Centime {
	var configFile string
	b := &centimeInstance{}

	var rootCmd = &cobra.Command{
		Use:   "centime",
		Short: "Bank alert ledger",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./centime.json", "Configuration file for centime")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))
	rootCmd.AddCommand(seedCommands(b))

	return &Centime{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during execution.
func (w Centime) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
