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
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/transcheck/internal/policy"
)

var stopwordsPreset string

var stopwordsCmd = &cobra.Command{
	Use:   "stopwords",
	Short: "Inspect stopword lists",
	Long:  `List the stopwords of the active policy and the built-in presets.`,
}

var stopwordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stopwords of the active policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := buildValidator(policyConfig(cmd))
		if err != nil {
			return err
		}
		p := v.Policy()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Policy:                    %s\n", p.Name)
		fmt.Fprintf(out, "First token always counts: %v\n", p.FirstTokenAlwaysCounts)
		fmt.Fprintf(out, "Terminal word:             %s\n", p.TerminalWord)
		fmt.Fprintln(out)
		for _, word := range p.Words() {
			fmt.Fprintln(out, word)
		}
		return nil
	},
}

var stopwordsPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in policy presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tFIRST TOKEN COUNTS\tSTOPWORDS\tWORDS")
		for _, name := range policy.Presets() {
			p, err := policy.Preset(name)
			if err != nil {
				return err
			}
			words, err := policy.PresetWords(name)
			if err != nil {
				return err
			}
			sample := strings.Join(words, " ")
			if r := []rune(sample); len(r) > 40 {
				sample = string(r[:37]) + "..."
			}
			marker := ""
			if name == policy.DefaultPreset {
				marker = " (default)"
			}
			fmt.Fprintf(w, "%s%s\t%v\t%d\t%s\n", name, marker, p.FirstTokenAlwaysCounts, len(words), sample)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(stopwordsCmd)

	stopwordsCmd.AddCommand(stopwordsListCmd)
	stopwordsCmd.AddCommand(stopwordsPresetsCmd)

	stopwordsListCmd.Flags().StringVarP(&stopwordsPreset, "preset", "p", "", "Policy preset: refined or uniform (default from policy.preset)")
}
