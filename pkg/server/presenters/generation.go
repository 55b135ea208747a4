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

package presenters

import (
	"time"

	"github.com/cardbox/cardbox/pkg/server/database"
	"github.com/cardbox/cardbox/pkg/server/openrouter"
)

// Generation is a result of PresentGeneration
type Generation struct {
	ID                    int       `json:"id"`
	Model                 string    `json:"model"`
	GeneratedCount        int       `json:"generated_count"`
	AcceptedUneditedCount *int      `json:"accepted_unedited_count"`
	AcceptedEditedCount   *int      `json:"accepted_edited_count"`
	SourceTextHash        string    `json:"source_text_hash"`
	SourceTextLength      int       `json:"source_text_length"`
	GenerationDuration    int64     `json:"generation_duration"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// PresentGeneration presents a generation
func PresentGeneration(generation database.Generation) Generation {
	return Generation{
		ID:                    generation.ID,
		Model:                 generation.AIModel,
		GeneratedCount:        generation.GeneratedCount,
		AcceptedUneditedCount: generation.AcceptedUneditedCount,
		AcceptedEditedCount:   generation.AcceptedEditedCount,
		SourceTextHash:        generation.SourceTextHash,
		SourceTextLength:      generation.SourceTextLength,
		GenerationDuration:    generation.GenerationDuration,
		CreatedAt:             FormatTS(generation.CreatedAt),
		UpdatedAt:             FormatTS(generation.UpdatedAt),
	}
}

// GenerationResult is the payload for a completed generation request
type GenerationResult struct {
	GenerationID       int                   `json:"generation_id"`
	Model              string                `json:"model"`
	GeneratedCount     int                   `json:"generated_count"`
	GenerationDuration int64                 `json:"generation_duration"`
	Proposals          []openrouter.Proposal `json:"proposals"`
}

// PresentGenerationResult presents a generation together with its proposals
func PresentGenerationResult(generation database.Generation, proposals []openrouter.Proposal) GenerationResult {
	return GenerationResult{
		GenerationID:       generation.ID,
		Model:              generation.AIModel,
		GeneratedCount:     generation.GeneratedCount,
		GenerationDuration: generation.GenerationDuration,
		Proposals:          proposals,
	}
}
