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
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newLoginCommand(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize against a server, replacing any stored credential",
		Long: `Run the OAuth authorization flow unconditionally and store the
resulting credential, replacing whatever was stored before. Use this to
switch accounts or recover from a revoked token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setupApp(*configPath, *verbose)
			if err != nil {
				return err
			}
			defer app.close()

			sess, err := app.bootstrap.Reauthorize(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Logged in as @%s on %s\n",
				sess.Account.Acct, sess.Credentials.ServerBaseURL)
			fmt.Fprintf(os.Stderr, "Credential stored at %s\n", app.store.Path())
			return nil
		},
	}
}
