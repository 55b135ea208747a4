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

// Package config reads and writes the cardbox configuration file
package config

import (
	"fmt"
	"os"

	"github.com/cardbox/cardbox/pkg/cli/consts"
	"github.com/cardbox/cardbox/pkg/cli/context"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config holds cardbox configuration
type Config struct {
	APIEndpoint      string `yaml:"apiEndpoint"`
	SessionKey       string `yaml:"sessionKey"`
	SessionKeyExpiry int64  `yaml:"sessionKeyExpiry"`
}

// GetPath returns the path to the cardbox config file
func GetPath(ctx context.CardboxCtx) string {
	return fmt.Sprintf("%s/%s/%s", ctx.Paths.Config, consts.CardboxDirName, consts.ConfigFilename)
}

// Read reads the config file
func Read(ctx context.CardboxCtx) (Config, error) {
	var ret Config

	configPath := GetPath(ctx)
	b, err := os.ReadFile(configPath)
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	err = yaml.Unmarshal(b, &ret)
	if err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	return ret, nil
}

// Write writes the config to the config file. The session key is stored
// with the config, so the file is only readable by the owner.
func Write(ctx context.CardboxCtx, cf Config) error {
	path := GetPath(ctx)

	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}

	err = os.WriteFile(path, b, 0600)
	if err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}

// SetSession saves the given session credentials in the config file
func SetSession(ctx context.CardboxCtx, key string, expiry int64) error {
	cf, err := Read(ctx)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	cf.SessionKey = key
	cf.SessionKeyExpiry = expiry

	return Write(ctx, cf)
}

// ClearSession removes the session credentials from the config file
func ClearSession(ctx context.CardboxCtx) error {
	return SetSession(ctx, "", 0)
}
