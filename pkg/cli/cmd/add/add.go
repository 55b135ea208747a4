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

package add

import (
	"strings"

	"github.com/cardbox/cardbox/pkg/cli/client"
	"github.com/cardbox/cardbox/pkg/cli/context"
	"github.com/cardbox/cardbox/pkg/cli/infra"
	"github.com/cardbox/cardbox/pkg/cli/log"
	"github.com/cardbox/cardbox/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var frontFlag string
var backFlag string

var example = `
 * Add a flashcard with the front and back given as flags
 cardbox add -f "What is a goroutine?" -b "A lightweight thread managed by the Go runtime"

 * Add a flashcard interactively
 cardbox add`

// NewCmd returns a new add command
func NewCmd(ctx context.CardboxCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a new flashcard",
		Aliases: []string{"a", "n", "new"},
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&frontFlag, "front", "f", "", "the front side of the flashcard")
	f.StringVarP(&backFlag, "back", "b", "", "the back side of the flashcard")

	return cmd
}

func newRun(ctx context.CardboxCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		front := frontFlag
		back := backFlag

		if front == "" {
			if err := ui.PromptInput("front", &front); err != nil {
				return errors.Wrap(err, "getting front input")
			}
		}
		if back == "" {
			if err := ui.PromptInput("back", &back); err != nil {
				return errors.Wrap(err, "getting back input")
			}
		}

		if strings.TrimSpace(front) == "" || strings.TrimSpace(back) == "" {
			log.Error("both front and back are required\n")
			return nil
		}

		resp, err := client.CreateFlashcard(ctx, strings.TrimSpace(front), strings.TrimSpace(back))
		if err != nil {
			return errors.Wrap(err, "creating the flashcard")
		}

		log.Successf("added a flashcard (id %d)\n", resp.Data.ID)

		return nil
	}
}
