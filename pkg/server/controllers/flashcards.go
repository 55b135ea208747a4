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

// NewFlashcards creates a new Flashcards controller
func NewFlashcards(app *app.App) *Flashcards {
	return &Flashcards{
		app: app,
	}
}

// Flashcards is a flashcard controller
type Flashcards struct {
	app *app.App
}

type flashcardPayload struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Create handles POST /api/flashcards
func (f *Flashcards) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var payload flashcardPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	front, back, err := validate.FlashcardContent(payload.Front, payload.Back)
	if err != nil {
		handleJSONError(w, err, "validating payload")
		return
	}

	flashcard, err := f.app.CreateFlashcard(*user, front, back)
	if err != nil {
		handleJSONError(w, err, "creating flashcard")
		return
	}

	respondData(w, http.StatusCreated, presenters.PresentFlashcard(flashcard))
}

// flashcardListResponse is the payload for a flashcard listing
type flashcardListResponse struct {
	Data       []presenters.Flashcard `json:"data"`
	Pagination presenters.Pagination  `json:"pagination"`
}

// Index handles GET /api/flashcards
func (f *Flashcards) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	query, err := parseListQuery(r)
	if err != nil {
		handleJSONError(w, err, "parsing query")
		return
	}

	res, err := f.app.GetFlashcards(user.ID, app.GetFlashcardsParams{
		Page:   query.Page,
		Limit:  query.Limit,
		Search: query.Search,
		Source: query.Source,
		Sort:   query.Sort,
		Order:  query.Order,
	})
	if err != nil {
		handleJSONError(w, err, "getting flashcards")
		return
	}

	mw.RespondJSON(w, http.StatusOK, flashcardListResponse{
		Data:       presenters.PresentFlashcards(res.Flashcards),
		Pagination: presenters.PresentPagination(query.Page, query.Limit, res.Total),
	})
}

// Update handles PUT /api/flashcards/{flashcardID}
func (f *Flashcards) Update(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	flashcardID, err := getIntParam(r, "flashcardID")
	if err != nil {
		handleJSONError(w, err, "parsing flashcard id")
		return
	}

	var payload flashcardPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	front, back, err := validate.FlashcardContent(payload.Front, payload.Back)
	if err != nil {
		handleJSONError(w, err, "validating payload")
		return
	}

	flashcard, err := f.app.UpdateFlashcard(*user, flashcardID, front, back)
	if err != nil {
		handleJSONError(w, err, "updating flashcard")
		return
	}

	respondData(w, http.StatusOK, presenters.PresentFlashcard(flashcard))
}

// Delete handles DELETE /api/flashcards/{flashcardID}
func (f *Flashcards) Delete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	flashcardID, err := getIntParam(r, "flashcardID")
	if err != nil {
		handleJSONError(w, err, "parsing flashcard id")
		return
	}

	if err := f.app.DeleteFlashcard(*user, flashcardID); err != nil {
		handleJSONError(w, err, "deleting flashcard")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type batchPayload struct {
	GenerationID int                  `json:"generation_id"`
	Flashcards   []validate.BatchItem `json:"flashcards"`
}

// batchResponse is the payload for a completed batch create
type batchResponse struct {
	CreatedCount int                    `json:"created_count"`
	Flashcards   []presenters.Flashcard `json:"flashcards"`
}

// CreateBatch handles POST /api/flashcards/batch
func (f *Flashcards) CreateBatch(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var payload batchPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	items, err := validate.Batch(payload.Flashcards, payload.GenerationID)
	if err != nil {
		handleJSONError(w, err, "validating payload")
		return
	}

	batch := make([]app.BatchItem, 0, len(items))
	for _, item := range items {
		batch = append(batch, app.BatchItem{Front: item.Front, Back: item.Back, Edited: item.Edited})
	}

	flashcards, err := f.app.CreateFlashcardBatch(*user, payload.GenerationID, batch)
	if err != nil {
		handleJSONError(w, err, "creating flashcards")
		return
	}

	respondData(w, http.StatusCreated, batchResponse{
		CreatedCount: len(flashcards),
		Flashcards:   presenters.PresentFlashcards(flashcards),
	})
}
