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

package study

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/cardbox/cardbox/pkg/cli/client"
	"github.com/cardbox/cardbox/pkg/cli/context"
	"github.com/cardbox/cardbox/pkg/cli/infra"
	"github.com/cardbox/cardbox/pkg/cli/log"
	"github.com/cardbox/cardbox/pkg/cli/review"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * Review all flashcards
 cardbox study`

// NewCmd returns a new study command
func NewCmd(ctx context.CardboxCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "study",
		Short:   "Review flashcards interactively",
		Example: example,
		RunE:    newRun(ctx),
	}

	return cmd
}

func printCard(s *review.Session) {
	card, ok := s.Current()
	if !ok {
		return
	}

	pos, total := s.Position()
	log.Plainf("\n[%d/%d] %s\n", pos, total, card.Front)
	if s.Flipped() {
		log.Plainf("      %s\n", card.Back)
	}
}

func printHelp() {
	log.Plain("enter: flip or advance / p: previous / r: restart / q: quit\n")
}

// run drives the review session by reading commands line by line.
// It is separated from the cobra handler so that tests can supply
// their own input and observe the session state.
func run(s *review.Session, r io.Reader) error {
	printHelp()
	printCard(s)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		input := strings.TrimSpace(strings.ToLower(scanner.Text()))

		switch input {
		case "q", "quit":
			return nil
		case "p", "prev":
			s.Prev()
		case "r", "restart":
			s.Restart()
		case "h", "help":
			printHelp()
		case "":
			if s.Flipped() {
				s.Next()
			} else {
				s.Flip()
			}
		default:
			printHelp()
		}

		if s.Completed() {
			_, total := s.Position()
			log.Successf("reviewed all %d flashcards\n", total)
			return nil
		}

		printCard(s)
	}

	return errors.Wrap(scanner.Err(), "reading input")
}

func newRun(ctx context.CardboxCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		cards, err := client.FetchAllFlashcards(ctx)
		if err != nil {
			return errors.Wrap(err, "fetching flashcards")
		}

		reviewCards := make([]review.Card, 0, len(cards))
		for _, c := range cards {
			reviewCards = append(reviewCards, review.Card{Front: c.Front, Back: c.Back})
		}

		s, err := review.NewSession(reviewCards)
		if errors.Is(err, review.ErrNoCards) {
			log.Plain("no flashcards to study. Add some with 'cardbox add'\n")
			return nil
		} else if err != nil {
			return errors.Wrap(err, "starting a review session")
		}

		return run(s, os.Stdin)
	}
}
