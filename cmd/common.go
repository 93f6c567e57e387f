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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/valpere/transcheck/internal/config"
	"github.com/valpere/transcheck/internal/store"
	"github.com/valpere/transcheck/internal/validator"
)

// policyConfig returns the configured policy with a --preset override
// applied when the command has that flag and it was set.
func policyConfig(cmd *cobra.Command) config.PolicyConfig {
	pc := cfg.Policy
	if f := cmd.Flags().Lookup("preset"); f != nil && f.Changed {
		pc.Preset = f.Value.String()
	}
	return pc
}

// buildValidator constructs the validator for the effective policy.
func buildValidator(pc config.PolicyConfig) (*validator.Validator, error) {
	p, err := pc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build policy: %w", err)
	}
	return validator.New(p), nil
}

// openStore opens the run history, creating its directory if needed.
func openStore(path string) (*store.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("no history database configured (set store.path or --db)")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
