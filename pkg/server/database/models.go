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

package database

import (
	"time"
)

const (
	// FlashcardSourceManual marks a flashcard created by hand
	FlashcardSourceManual = "manual"
	// FlashcardSourceAI marks a flashcard accepted from an AI generation
	FlashcardSourceAI = "ai"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user
type User struct {
	Model
	UUID        string     `json:"uuid" gorm:"type:text;index"`
	Email       string     `json:"-" gorm:"uniqueIndex"`
	Password    string     `json:"-"`
	LastLoginAt *time.Time `json:"-"`
}

// Session represents a user session
type Session struct {
	Model
	UserID     int    `gorm:"index"`
	Key        string `gorm:"index"`
	LastUsedAt time.Time
	ExpiresAt  time.Time
}

// Flashcard is a model for a flashcard. The owner never changes after
// creation and GenerationID is set iff Source is "ai".
type Flashcard struct {
	Model
	UserID       int    `json:"-" gorm:"index"`
	Front        string `json:"front"`
	Back         string `json:"back"`
	Source       string `json:"source" gorm:"index"`
	GenerationID *int   `json:"generation_id" gorm:"index"`
}

// Generation is a record of a single AI generation call. The raw source
// text is never stored; only its hash and length are kept.
type Generation struct {
	Model
	UserID                int    `json:"-" gorm:"index"`
	AIModel               string `json:"model" gorm:"column:model"`
	GeneratedCount        int    `json:"generated_count"`
	AcceptedUneditedCount *int   `json:"accepted_unedited_count"`
	AcceptedEditedCount   *int   `json:"accepted_edited_count"`
	SourceTextHash        string `json:"source_text_hash"`
	SourceTextLength      int    `json:"source_text_length"`
	GenerationDuration    int64  `json:"generation_duration"`
}

// GenerationErrorLog is an append-only diagnostic record for failed AI
// generation attempts. Writes are best-effort.
type GenerationErrorLog struct {
	Model
	UserID           int    `gorm:"index"`
	AIModel          string `gorm:"column:model"`
	SourceTextHash   string
	SourceTextLength int
	ErrorCode        string
	ErrorMessage     string
}
