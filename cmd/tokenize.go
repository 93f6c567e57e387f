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

	"github.com/valpere/transcheck/internal/tokenizer"
)

var tokenizePreset string

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <phrase>...",
	Short: "Show how phrases are tokenized and which tokens count",
	Long: `Print the normalized tokens of each phrase and whether each one counts
toward repetition under the active policy.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := buildValidator(policyConfig(cmd))
		if err != nil {
			return err
		}
		p := v.Policy()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for i, phrase := range args {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%q\n", phrase)

			tokens := tokenizer.Tokenize(phrase)
			if len(tokens) == 0 {
				fmt.Fprintln(w, "  (no tokens)")
				continue
			}
			fmt.Fprintln(w, "  #\tTOKEN\tCOUNTS")
			for j, tok := range tokens {
				status := "yes"
				if !p.Counts(j, tok) {
					status = "no (stopword)"
				}
				fmt.Fprintf(w, "  %d\t%s\t%s\n", j, tok, status)
			}
			fmt.Fprintf(w, "  content: %s\n", strings.Join(v.ContentTokens(phrase), " "))
		}
		fmt.Fprintf(w, "\npolicy: %s\n", p.Name)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)

	tokenizeCmd.Flags().StringVarP(&tokenizePreset, "preset", "p", "", "Counting policy: refined or uniform (default from policy.preset)")
}
