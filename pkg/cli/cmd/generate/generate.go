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

package generate

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cardbox/cardbox/pkg/cli/client"
	"github.com/cardbox/cardbox/pkg/cli/context"
	"github.com/cardbox/cardbox/pkg/cli/infra"
	"github.com/cardbox/cardbox/pkg/cli/log"
	"github.com/cardbox/cardbox/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var contentFlag string

var example = `
 * Generate flashcards from a text passed as a flag
 cardbox generate -c "$(cat notes.md)"

 * Generate flashcards from piped text
 cat notes.md | cardbox generate`

// NewCmd returns a new generate command
func NewCmd(ctx context.CardboxCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Generate flashcards from a text using AI",
		Aliases: []string{"gen"},
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&contentFlag, "content", "c", "", "the source text to generate flashcards from")

	return cmd
}

func getSourceText() (string, error) {
	if contentFlag != "" {
		return contentFlag, nil
	}

	fi, err := os.Stdin.Stat()
	if err != nil {
		return "", errors.Wrap(err, "getting stdin stat")
	}
	if (fi.Mode() & os.ModeCharDevice) == 0 {
		return ui.ReadStdInput()
	}

	return "", errors.New("no source text given. Pass text with -c or pipe it through stdin")
}

// readLine reads the next line from the reader. It tolerates a missing
// trailing newline at the end of input.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "reading input")
	}

	return strings.Trim(line, "\r\n"), nil
}

// reviewProposals walks through the proposals one by one, letting the user
// accept, edit or skip each. Editing prompts for a replacement front and
// back; an empty input keeps the original side.
func reviewProposals(proposals []client.Proposal, r io.Reader) ([]client.BatchItem, error) {
	reader := bufio.NewReader(r)
	items := []client.BatchItem{}

	for i, p := range proposals {
		log.Plainf("\n%d/%d. %s\n", i+1, len(proposals), p.Front)
		log.Plainf("     %s\n", p.Back)
		log.Askf("[a]ccept / [e]dit / [s]kip (default: accept)", false)

		answer, err := readLine(reader)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "s", "skip":
			continue
		case "e", "edit":
			log.Askf("front (leave empty to keep)", false)
			front, err := readLine(reader)
			if err != nil {
				return nil, err
			}
			log.Askf("back (leave empty to keep)", false)
			back, err := readLine(reader)
			if err != nil {
				return nil, err
			}

			item := client.BatchItem{Front: p.Front, Back: p.Back}
			if front != "" {
				item.Front = front
				item.Edited = true
			}
			if back != "" {
				item.Back = back
				item.Edited = true
			}

			items = append(items, item)
		default:
			items = append(items, client.BatchItem{Front: p.Front, Back: p.Back})
		}
	}

	return items, nil
}

func newRun(ctx context.CardboxCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		sourceText, err := getSourceText()
		if err != nil {
			return err
		}
		if strings.TrimSpace(sourceText) == "" {
			log.Error("the source text is empty\n")
			return nil
		}

		log.Info("generating flashcards. This may take a moment.\n")

		result, err := client.GenerateFlashcards(ctx, sourceText)
		if err != nil {
			var httpErr *client.HTTPError
			if errors.As(err, &httpErr) {
				return errors.Errorf("generating flashcards: %s", httpErr.Message)
			}
			return errors.Wrap(err, "generating flashcards")
		}

		if len(result.Proposals) == 0 {
			log.Plain("the AI did not propose any flashcards\n")
			return nil
		}

		log.Infof("generated %d flashcards with %s in %s\n",
			result.GeneratedCount, result.Model, time.Duration(result.GenerationDuration)*time.Millisecond)

		items, err := reviewProposals(result.Proposals, os.Stdin)
		if err != nil {
			return errors.Wrap(err, "reviewing proposals")
		}
		if len(items) == 0 {
			log.Plain("no flashcards were saved\n")
			return nil
		}

		batch, err := client.CreateFlashcardBatch(ctx, result.GenerationID, items)
		if err != nil {
			return errors.Wrap(err, "saving flashcards")
		}

		log.Successf("saved %d flashcards\n", batch.CreatedCount)

		return nil
	}
}
