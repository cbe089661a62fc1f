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

	"github.com/spf13/cobra"
)

func newWhoamiCommand(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show which account the stored credential belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setupApp(*configPath, *verbose)
			if err != nil {
				return err
			}
			defer app.close()

			sess, err := app.bootstrap.Run(cmd.Context())
			if err != nil {
				return err
			}

			account := sess.Account
			name := account.DisplayName
			if name == "" {
				name = account.Username
			}
			fmt.Fprintf(cmd.OutOrStdout(), "@%s (%s)\n%s\n",
				account.Acct, name, account.URL)
			return nil
		},
	}
}
