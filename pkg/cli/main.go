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

package main

import (
	"os"

	"github.com/cardbox/cardbox/pkg/cli/cmd/add"
	"github.com/cardbox/cardbox/pkg/cli/cmd/generate"
	"github.com/cardbox/cardbox/pkg/cli/cmd/login"
	"github.com/cardbox/cardbox/pkg/cli/cmd/logout"
	"github.com/cardbox/cardbox/pkg/cli/cmd/ls"
	"github.com/cardbox/cardbox/pkg/cli/cmd/root"
	"github.com/cardbox/cardbox/pkg/cli/cmd/study"
	"github.com/cardbox/cardbox/pkg/cli/cmd/version"
	"github.com/cardbox/cardbox/pkg/cli/infra"
	"github.com/cardbox/cardbox/pkg/cli/log"
)

// set by ldflags
var versionTag = "master"
var apiEndpoint string

func main() {
	ctx, err := infra.Init(versionTag, apiEndpoint)
	if err != nil {
		log.Errorf("initializing environment: %s\n", err)
		os.Exit(1)
	}

	root.Register(login.NewCmd(*ctx))
	root.Register(logout.NewCmd(*ctx))
	root.Register(add.NewCmd(*ctx))
	root.Register(ls.NewCmd(*ctx))
	root.Register(generate.NewCmd(*ctx))
	root.Register(study.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	if err := root.Execute(); err != nil {
		log.Errorf("%s\n", err)
		os.Exit(1)
	}
}
