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

package controllers

import (
	"net/http"

	"github.com/cardbox/cardbox/pkg/server/app"
	"github.com/cardbox/cardbox/pkg/server/context"
	mw "github.com/cardbox/cardbox/pkg/server/middleware"
	"github.com/cardbox/cardbox/pkg/server/presenters"
	"github.com/cardbox/cardbox/pkg/server/validate"
)

// NewGenerations creates a new Generations controller
func NewGenerations(app *app.App) *Generations {
	return &Generations{
		app: app,
	}
}

// Generations is a generation controller
type Generations struct {
	app *app.App
}

type generationPayload struct {
	SourceText string `json:"source_text"`
}

// Create handles POST /api/generations
func (g *Generations) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var payload generationPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	sourceText, err := validate.SourceText(payload.SourceText)
	if err != nil {
		handleJSONError(w, err, "validating payload")
		return
	}

	res, err := g.app.GenerateFlashcards(r.Context(), *user, sourceText)
	if err != nil {
		handleJSONError(w, err, "generating flashcards")
		return
	}

	respondData(w, http.StatusCreated, presenters.PresentGenerationResult(res.Generation, res.Proposals))
}
