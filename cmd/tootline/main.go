// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tooterrors "github.com/tootline/tootline/internal/errors"
	"github.com/tootline/tootline/pkg/version"
)

func main() {
	rootCmd := newRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "tootline",
		Short: "Read your Mastodon home timeline from the terminal",
		Long: `Tootline authenticates against a Mastodon server via OAuth, stores the
credential for later runs, and pages through your home timeline. The first
run registers the tool with your server and walks you through the
browser-based authorization; subsequent runs reuse the stored credential.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.config/tootline/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging on stderr")

	rootCmd.AddCommand(newTimelineCommand(&configPath, &verbose))
	rootCmd.AddCommand(newLoginCommand(&configPath, &verbose))
	rootCmd.AddCommand(newWhoamiCommand(&configPath, &verbose))

	return rootCmd
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, tooterrors.ErrRegistrationFailed) ||
		errors.Is(err, tooterrors.ErrExchangeFailed) {
		return 2 // Authorization flow errors
	}

	if errors.Is(err, tooterrors.ErrFetchFailed) {
		return 3 // API/network errors
	}

	if errors.Is(err, tooterrors.ErrCredentialsCorrupt) {
		return 4 // Credential file needs manual attention
	}

	return 1 // General error
}
