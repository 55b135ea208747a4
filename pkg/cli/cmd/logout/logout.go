/* Copyright 2025 Cardbox Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logout

import (
	"github.com/cardbox/cardbox/pkg/cli/client"
	"github.com/cardbox/cardbox/pkg/cli/config"
	"github.com/cardbox/cardbox/pkg/cli/context"
	"github.com/cardbox/cardbox/pkg/cli/infra"
	"github.com/cardbox/cardbox/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrNotLoggedIn is an error for logging out when not logged in
var ErrNotLoggedIn = errors.New("not logged in")

var example = `
  cardbox logout`

var apiEndpointFlag string

// NewCmd returns a new logout command
func NewCmd(ctx context.CardboxCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logout",
		Short:   "Logout from the server",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&apiEndpointFlag, "apiEndpoint", "", "API endpoint to connect to (defaults to value in config)")

	return cmd
}

// Do performs logout
func Do(ctx context.CardboxCtx) error {
	if ctx.SessionKey == "" {
		return ErrNotLoggedIn
	}

	if err := client.Signout(ctx); err != nil {
		return errors.Wrap(err, "requesting logout")
	}

	if err := config.ClearSession(ctx); err != nil {
		return errors.Wrap(err, "clearing session")
	}

	return nil
}

func newRun(ctx context.CardboxCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		// Override APIEndpoint if flag was provided
		if apiEndpointFlag != "" {
			ctx.APIEndpoint = apiEndpointFlag
		}

		err := Do(ctx)
		if err == ErrNotLoggedIn {
			log.Error("not logged in\n")
			return nil
		} else if err != nil {
			return errors.Wrap(err, "logging out")
		}

		log.Success("logged out\n")

		return nil
	}
}
