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
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/emojifix/pkg/config"
	"github.com/walteh/emojifix/pkg/fixer"
	"github.com/walteh/emojifix/pkg/log"
	"github.com/walteh/emojifix/pkg/rules"
	"github.com/walteh/emojifix/pkg/status"
	"github.com/walteh/emojifix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// rootOpts holds the flags shared by every command
type rootOpts struct {
	rulesFile string
	dryRun    bool
	debug     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "emojifix [path]",
		Short: "Repair emoji that an encoding mismatch turned into U+FFFD",
		Long: `emojifix rewrites a source file in place, replacing each known corrupted
emoji sequence with the emoji it used to be.

Without arguments it fixes ` + rules.DefaultTarget + ` with the built-in rule table.
The whole file is read and every rule applied in memory before anything is written,
so a failure never leaves the file half fixed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, opts.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}

	addRootFlags(cmd, opts)

	cmd.AddCommand(
		newRulesCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	cmd.PersistentFlags().StringVarP(&opts.rulesFile, "rules", "r", "", "rule file (.yaml, .yml, .hcl or .json) used instead of the built-in table")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "show what would change without writing")
}

// setupLogging puts a zerolog logger and a console logger in the command context
func setupLogging(cmd *cobra.Command, debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level).With().Timestamp().Logger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = zlog.WithContext(ctx)
	ctx = log.NewContext(ctx, log.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), level))
	cmd.SetContext(ctx)
}

// ruleSet is the resolved input for a run
type ruleSet struct {
	target string
	source string
	rules  []text.ReplacementRule
}

func resolveRules(ctx context.Context, opts *rootOpts, args []string) (*ruleSet, error) {
	rs := &ruleSet{
		target: rules.DefaultTarget,
		source: "built-in rules",
		rules:  rules.Known(),
	}

	if opts.rulesFile != "" {
		rf, err := config.Load(ctx, opts.rulesFile)
		if err != nil {
			return nil, errors.Errorf("loading rules: %w", err)
		}
		rs.source = opts.rulesFile
		rs.rules = rf.Rules
		if rf.Target != "" {
			rs.target = rf.Target
		}
	}

	if len(args) > 0 {
		rs.target = args[0]
	}

	return rs, nil
}

func runFix(ctx context.Context, out io.Writer, opts *rootOpts, args []string) error {
	ul := log.FromContext(ctx)
	formatter := status.NewDefaultFileFormatter()

	rs, err := resolveRules(ctx, opts, args)
	if err != nil {
		return err
	}

	ul.Header("repairing corrupted emoji")
	ul.StartTargetOperation(ctx, log.TargetOperation{
		Path:   rs.target,
		Source: rs.source,
		Rules:  len(rs.rules),
		DryRun: opts.dryRun,
	})
	defer ul.EndTargetOperation(ctx)

	var fixOpts []fixer.Option
	if opts.dryRun {
		fixOpts = append(fixOpts, fixer.WithDryRun())
	}

	res, err := fixer.Run(ctx, rs.target, rs.rules, fixOpts...)
	if err != nil {
		fmt.Fprintln(out, formatter.FormatFileOperation(status.FileInfo{Path: rs.target, Status: status.StatusFailed}))
		ul.Error(formatter.FormatError(err))
		return err
	}

	skipped := 0
	for _, rr := range res.Rules {
		if rr.Skipped {
			skipped++
		}
		ul.LogRuleOperation(ctx, log.RuleOperation{
			Index:       rr.Index,
			Pattern:     rr.Rule.Pattern,
			Replacement: rr.Rule.Replacement,
			Count:       rr.Count,
			Skipped:     rr.Skipped,
		})
	}
	ul.LogNewline()

	if skipped > 0 {
		ul.Warningf("%d of %d rules skipped by their file glob", skipped, len(res.Rules))
	}
	if res.Replacements == 0 {
		ul.Warning("No known corruption found.")
	}

	if opts.dryRun {
		printDiff(out, res.Diff())
	}

	fmt.Fprintln(out, formatter.FormatFileOperation(res.Info()))
	if opts.dryRun {
		ul.Infof("Dry run, nothing written to %s.", rs.target)
		return nil
	}
	ul.Successf("Fix completed, %s written.", rs.target)
	return nil
}

func printDiff(out io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(out, pterm.FgRed.Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(out, pterm.FgGreen.Sprint(line))
		}
	}
}
