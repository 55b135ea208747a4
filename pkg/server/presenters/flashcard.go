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

// Package presenters shapes database records into API response payloads,
// stripping fields that must not leave the server.
package presenters

import (
	"time"

	"github.com/cardbox/cardbox/pkg/server/database"
)

// Flashcard is a result of PresentFlashcard
type Flashcard struct {
	ID           int       `json:"id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Source       string    `json:"source"`
	GenerationID *int      `json:"generation_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PresentFlashcard presents a flashcard
func PresentFlashcard(flashcard database.Flashcard) Flashcard {
	return Flashcard{
		ID:           flashcard.ID,
		Front:        flashcard.Front,
		Back:         flashcard.Back,
		Source:       flashcard.Source,
		GenerationID: flashcard.GenerationID,
		CreatedAt:    FormatTS(flashcard.CreatedAt),
		UpdatedAt:    FormatTS(flashcard.UpdatedAt),
	}
}

// PresentFlashcards presents flashcards
func PresentFlashcards(flashcards []database.Flashcard) []Flashcard {
	ret := []Flashcard{}

	for _, flashcard := range flashcards {
		p := PresentFlashcard(flashcard)
		ret = append(ret, p)
	}

	return ret
}

// Pagination describes the position of a page within a listing
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// PresentPagination presents pagination metadata for a listing
func PresentPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
