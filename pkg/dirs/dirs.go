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

// Package dirs provides base directories of the system following the
// XDG base directory specification.
package dirs

import (
	"os"
	"path/filepath"
)

var (
	// Home is the home directory of the user
	Home string
	// ConfigHome is the base directory for user specific configuration
	ConfigHome string
	// DataHome is the base directory for user specific data
	DataHome string
	// CacheHome is the base directory for user specific cache
	CacheHome string
)

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	Home = home
	ConfigHome = xdgDir("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	DataHome = xdgDir("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	CacheHome = xdgDir("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
}

func xdgDir(envName, fallback string) string {
	if dir := os.Getenv(envName); dir != "" {
		return dir
	}

	return fallback
}
