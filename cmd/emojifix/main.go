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
	"os"

	"github.com/pterm/pterm"
	"github.com/walteh/emojifix/pkg/fixer"
	"gitlab.com/tozd/go/errors"
)

// Exit codes, one per failure class
const (
	exitOK       = 0
	exitFailure  = 1
	exitAccess   = 2
	exitEncoding = 3
	exitPattern  = 4
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		pterm.Error.WithWriter(cmd.ErrOrStderr()).WithPrefix(pterm.Prefix{Text: "❌"}).Println(describe(err))
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, fixer.ErrAccess):
		return exitAccess
	case errors.Is(err, fixer.ErrEncoding):
		return exitEncoding
	case errors.Is(err, fixer.ErrPattern):
		return exitPattern
	default:
		return exitFailure
	}
}

// describe leads with the failure class so it is visible even when wrapped
func describe(err error) string {
	switch {
	case errors.Is(err, fixer.ErrAccess):
		return fmt.Sprintf("[%s] %v", fixer.ErrAccess, err)
	case errors.Is(err, fixer.ErrEncoding):
		return fmt.Sprintf("[%s] %v", fixer.ErrEncoding, err)
	case errors.Is(err, fixer.ErrPattern):
		return fmt.Sprintf("[%s] %v", fixer.ErrPattern, err)
	default:
		return err.Error()
	}
}
