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

package login

import (
	"net/url"

	"github.com/cardbox/cardbox/pkg/cli/client"
	"github.com/cardbox/cardbox/pkg/cli/config"
	"github.com/cardbox/cardbox/pkg/cli/context"
	"github.com/cardbox/cardbox/pkg/cli/infra"
	"github.com/cardbox/cardbox/pkg/cli/log"
	"github.com/cardbox/cardbox/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  cardbox login`

var apiEndpointFlag string

// NewCmd returns a new login command
func NewCmd(ctx context.CardboxCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Login to the server",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&apiEndpointFlag, "apiEndpoint", "", "API endpoint to connect to (defaults to value in config)")

	return cmd
}

// getServerDisplayURL derives a user-facing URL of the server from the
// API endpoint. It returns an empty string if the endpoint is not a
// well-formed URL.
func getServerDisplayURL(ctx context.CardboxCtx) string {
	u, err := url.Parse(ctx.APIEndpoint)
	if err != nil {
		return ""
	}
	if u.Scheme == "" || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

// Do performs login
func Do(ctx context.CardboxCtx, email, password string) error {
	resp, err := client.Signin(ctx, email, password)
	if err != nil {
		return errors.Wrap(err, "requesting login")
	}

	if err := config.SetSession(ctx, resp.Key, resp.ExpiresAt.Unix()); err != nil {
		return errors.Wrap(err, "saving session")
	}

	return nil
}

func newRun(ctx context.CardboxCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		// Override APIEndpoint if flag was provided
		if apiEndpointFlag != "" {
			ctx.APIEndpoint = apiEndpointFlag
		}

		if displayURL := getServerDisplayURL(ctx); displayURL != "" {
			log.Infof("logging in to %s\n", displayURL)
		}

		var email, password string
		if err := ui.PromptInput("email", &email); err != nil {
			return errors.Wrap(err, "getting email input")
		}
		if err := ui.PromptPassword("password", &password); err != nil {
			return errors.Wrap(err, "getting password input")
		}

		err := Do(ctx, email, password)
		if errors.Is(err, client.ErrInvalidLogin) {
			log.Error("wrong email and password combination\n")
			return nil
		} else if err != nil {
			return errors.Wrap(err, "logging in")
		}

		log.Success("logged in\n")

		return nil
	}
}
