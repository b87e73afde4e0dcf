// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

func newRulesCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the active rule table",
		Long: `Print the rules a run would apply, in order. Non-printing characters in
patterns and replacements are shown as Go escapes so the corrupted forms are visible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rs, err := resolveRules(ctx, opts, nil)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"#", "pattern", "replacement", "file"}}
			for i, r := range rs.rules {
				pattern := r.Pattern
				if r.Literal {
					pattern = "literal " + pattern
				}
				data = append(data, []string{
					strconv.Itoa(i),
					visible(pattern),
					visible(r.Replacement),
					r.FileFilterGlob,
				})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering rule table: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "target: %s\nsource: %s\n\n", rs.target, rs.source)
			fmt.Fprintln(out, table)
			return nil
		},
	}
}

// visible escapes the replacement character and variation selectors, which
// render as nothing or as an empty box in most terminals
func visible(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '\uFFFD', r >= '\uFE00' && r <= '\uFE0F':
			fmt.Fprintf(&sb, "\\u%04X", r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
