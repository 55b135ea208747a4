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

// Package infra provides operations and definitions for the
// local infrastructure for Cardbox
package infra

import (
	"github.com/cardbox/cardbox/pkg/cli/client"
	"github.com/cardbox/cardbox/pkg/cli/config"
	"github.com/cardbox/cardbox/pkg/cli/context"
	"github.com/cardbox/cardbox/pkg/cli/log"
	"github.com/cardbox/cardbox/pkg/cli/utils"
	"github.com/cardbox/cardbox/pkg/clock"
	"github.com/cardbox/cardbox/pkg/dirs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	// DefaultAPIEndpoint is the default API endpoint used when none is configured
	DefaultAPIEndpoint = "http://localhost:3001/api"
)

// RunEFunc is a function type of cardbox commands
type RunEFunc func(*cobra.Command, []string) error

// newBaseCtx creates a minimal context with paths. This base context is
// used for file initialization before being enriched with config values
// by setupCtx.
func newBaseCtx(versionTag string) context.CardboxCtx {
	paths := context.Paths{
		Home:   dirs.Home,
		Config: dirs.ConfigHome,
		Data:   dirs.DataHome,
		Cache:  dirs.CacheHome,
	}

	return context.CardboxCtx{
		Paths:   paths,
		Version: versionTag,
	}
}

// Init initializes the Cardbox environment and returns a new cardbox context.
// apiEndpoint is used when creating a new config file (e.g., from ldflags during tests)
func Init(versionTag, apiEndpoint string) (*context.CardboxCtx, error) {
	ctx := newBaseCtx(versionTag)

	if err := initFiles(ctx, apiEndpoint); err != nil {
		return nil, errors.Wrap(err, "initializing files")
	}

	ctx, err := setupCtx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "setting up the context")
	}

	log.Debug("context: %+v\n", context.Redact(ctx))

	return &ctx, nil
}

// setupCtx enriches the base context with values from the config file.
// This is called after files have been initialized.
func setupCtx(ctx context.CardboxCtx) (context.CardboxCtx, error) {
	cf, err := config.Read(ctx)
	if err != nil {
		return ctx, errors.Wrap(err, "reading config")
	}

	ret := context.CardboxCtx{
		Paths:            ctx.Paths,
		Version:          ctx.Version,
		APIEndpoint:      cf.APIEndpoint,
		SessionKey:       cf.SessionKey,
		SessionKeyExpiry: cf.SessionKeyExpiry,
		Clock:            clock.New(),
		HTTPClient:       client.NewRateLimitedHTTPClient(),
	}

	return ret, nil
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(ctx context.CardboxCtx, apiEndpoint string) error {
	path := config.GetPath(ctx)
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	// Use default API endpoint if none provided
	endpoint := apiEndpoint
	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}

	cf := config.Config{
		APIEndpoint: endpoint,
	}

	if err := config.Write(ctx, cf); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

// initFiles creates, if necessary, the cardbox directory and files inside
func initFiles(ctx context.CardboxCtx, apiEndpoint string) error {
	if err := context.InitCardboxDirs(ctx.Paths); err != nil {
		return errors.Wrap(err, "creating the cardbox dir")
	}
	if err := initConfigFile(ctx, apiEndpoint); err != nil {
		return errors.Wrap(err, "generating the config file")
	}

	return nil
}
