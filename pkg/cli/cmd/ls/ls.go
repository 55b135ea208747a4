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

package ls

import (
	"strings"

	"github.com/cardbox/cardbox/pkg/cli/client"
	"github.com/cardbox/cardbox/pkg/cli/context"
	"github.com/cardbox/cardbox/pkg/cli/infra"
	"github.com/cardbox/cardbox/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var pageFlag int
var limitFlag int
var searchFlag string
var sourceFlag string
var sortFlag string
var orderFlag string

var example = `
 * List flashcards
 cardbox ls

 * Search flashcards mentioning git
 cardbox ls --search git

 * List the AI-generated flashcards, oldest first
 cardbox ls --source ai --order asc`

// NewCmd returns a new ls command
func NewCmd(ctx context.CardboxCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Short:   "List flashcards",
		Aliases: []string{"l", "list"},
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.IntVar(&pageFlag, "page", 0, "page of the listing to fetch")
	f.IntVar(&limitFlag, "limit", 0, "number of flashcards per page")
	f.StringVar(&searchFlag, "search", "", "filter flashcards by a search term")
	f.StringVar(&sourceFlag, "source", "", "filter flashcards by source (manual or ai)")
	f.StringVar(&sortFlag, "sort", "", "field to sort by (created_at or updated_at)")
	f.StringVar(&orderFlag, "order", "", "sort order (asc or desc)")

	return cmd
}

// excerpt returns the first line of s, truncated to at most max runes
func excerpt(s string, max int) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		s = s[:idx]
	}

	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max-3]) + "..."
}

func printFlashcards(resp client.GetFlashcardsResp) {
	if len(resp.Data) == 0 {
		log.Plain("no flashcards found\n")
		return
	}

	for _, card := range resp.Data {
		marker := ""
		if card.Source == "ai" {
			marker = " *"
		}

		log.Plainf("(%d)%s %s\n", card.ID, marker, excerpt(card.Front, 70))
		log.Plainf("      %s\n", excerpt(card.Back, 70))
	}

	p := resp.Pagination
	log.Plainf("\npage %d of %d (%d total)\n", p.Page, p.TotalPages, p.Total)
	if p.HasNext {
		log.Plainf("use --page %d to see more\n", p.Page+1)
	}
}

func newRun(ctx context.CardboxCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		options := client.ListOptions{
			Page:   pageFlag,
			Limit:  limitFlag,
			Search: searchFlag,
			Source: sourceFlag,
			Sort:   sortFlag,
			Order:  orderFlag,
		}

		resp, err := client.GetFlashcards(ctx, options)
		if err != nil {
			var httpErr *client.HTTPError
			if errors.As(err, &httpErr) {
				return errors.Errorf("listing flashcards: %s", httpErr.Message)
			}
			return errors.Wrap(err, "listing flashcards")
		}

		printFlashcards(resp)

		return nil
	}
}
