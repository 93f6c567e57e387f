/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

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
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/transcheck/internal/server"
	"github.com/valpere/transcheck/internal/store"
)

var serveNoHistory bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the validation HTTP API",
	Long: `Start an HTTP server exposing batch validation and run history.

Endpoints:
  POST   /v1/validate      validate a JSON list of lists (?save=true keeps the run)
  GET    /v1/runs          list saved runs (?limit=N)
  GET    /v1/runs/:id      report of a saved run
  DELETE /v1/runs/:id      delete a saved run
  GET    /v1/stats         totals and most repeated words
  GET    /healthz          liveness`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := buildValidator(cfg.Policy)
		if err != nil {
			return err
		}

		var db *store.Store
		if !serveNoHistory {
			db, err = openStore(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer db.Close()
		}

		srv := server.New(v, db, server.Config{
			Addr:            cfg.Server.Addr,
			CORSOrigins:     cfg.Server.CORSOrigins,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
			MinGroupSize:    cfg.Input.MinGroupSize,
			MaxGroupSize:    cfg.Input.MaxGroupSize,
			StrictSize:      cfg.Input.StrictSize,
		})
		return srv.Start(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "Run without the history database")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
