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

package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cardbox/cardbox/pkg/server/database"
	"github.com/cardbox/cardbox/pkg/server/log"
	"github.com/cardbox/cardbox/pkg/server/permissions"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// CreateFlashcard creates a manually authored flashcard for the user
func (a *App) CreateFlashcard(user database.User, front, back string) (database.Flashcard, error) {
	flashcard := database.Flashcard{
		UserID: user.ID,
		Front:  front,
		Back:   back,
		Source: database.FlashcardSourceManual,
	}
	if err := a.DB.Create(&flashcard).Error; err != nil {
		return database.Flashcard{}, pkgErrors.Wrap(err, "inserting flashcard")
	}

	return flashcard, nil
}

// GetFlashcardsParams is params for finding flashcards
type GetFlashcardsParams struct {
	Page   int
	Limit  int
	Search string
	Source string
	Sort   string
	Order  string
}

func getFlashcardsBaseQuery(db *gorm.DB, userID int, q GetFlashcardsParams) *gorm.DB {
	conn := db.Model(&database.Flashcard{}).Where("flashcards.user_id = ?", userID)

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		conn = conn.Where("LOWER(flashcards.front) LIKE ? OR LOWER(flashcards.back) LIKE ?", pattern, pattern)
	}

	if q.Source != "" {
		conn = conn.Where("flashcards.source = ?", q.Source)
	}

	return conn
}

// orderGetFlashcards applies the sort column and direction. Values outside
// the whitelist fall back to the defaults.
func orderGetFlashcards(conn *gorm.DB, sort, order string) *gorm.DB {
	col := "created_at"
	if sort == "updated_at" {
		col = "updated_at"
	}

	dir := "DESC"
	if order == "asc" {
		dir = "ASC"
	}

	return conn.Order(fmt.Sprintf("flashcards.%s %s", col, dir))
}

func paginate(conn *gorm.DB, page, limit int) *gorm.DB {
	if page > 0 {
		offset := limit * (page - 1)
		conn = conn.Offset(offset)
	}

	conn = conn.Limit(limit)

	return conn
}

// GetFlashcardsResult is the result of getting flashcards
type GetFlashcardsResult struct {
	Flashcards []database.Flashcard
	Total      int64
}

// GetFlashcards returns a page of matching flashcards along with the total
// number of matches
func (a *App) GetFlashcards(userID int, params GetFlashcardsParams) (GetFlashcardsResult, error) {
	conn := getFlashcardsBaseQuery(a.DB, userID, params)

	var total int64
	if err := conn.Count(&total).Error; err != nil {
		return GetFlashcardsResult{}, pkgErrors.Wrap(err, "counting total")
	}

	flashcards := []database.Flashcard{}
	if total != 0 {
		conn = orderGetFlashcards(conn, params.Sort, params.Order)
		conn = paginate(conn, params.Page, params.Limit)

		if err := conn.Find(&flashcards).Error; err != nil {
			return GetFlashcardsResult{}, pkgErrors.Wrap(err, "finding flashcards")
		}
	}

	res := GetFlashcardsResult{
		Flashcards: flashcards,
		Total:      total,
	}

	return res, nil
}

// getOwnedFlashcard fetches a flashcard by id and verifies the user owns
// it. A missing flashcard and a foreign one are indistinguishable to the
// caller; both return ErrNotFound.
func (a *App) getOwnedFlashcard(user database.User, flashcardID int) (database.Flashcard, error) {
	var flashcard database.Flashcard
	err := a.DB.Where("id = ?", flashcardID).First(&flashcard).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Flashcard{}, ErrNotFound
	}
	if err != nil {
		return database.Flashcard{}, pkgErrors.Wrap(err, "finding flashcard")
	}
	if !permissions.ViewFlashcard(&user, flashcard) {
		return database.Flashcard{}, ErrNotFound
	}

	return flashcard, nil
}

// UpdateFlashcard updates the front and back of the user's flashcard with
// the given id. It returns ErrNotFound if the flashcard does not exist or
// belongs to another user.
func (a *App) UpdateFlashcard(user database.User, flashcardID int, front, back string) (database.Flashcard, error) {
	flashcard, err := a.getOwnedFlashcard(user, flashcardID)
	if err != nil {
		return database.Flashcard{}, err
	}

	conn := a.DB.Model(&flashcard).
		Updates(map[string]interface{}{
			"front": front,
			"back":  back,
		})
	if conn.Error != nil {
		return database.Flashcard{}, pkgErrors.Wrap(conn.Error, "updating flashcard")
	}

	var ret database.Flashcard
	if err := a.DB.Where("id = ?", flashcardID).First(&ret).Error; err != nil {
		return database.Flashcard{}, pkgErrors.Wrap(err, "finding updated flashcard")
	}

	return ret, nil
}

// DeleteFlashcard removes the user's flashcard with the given id. It returns
// ErrNotFound if the flashcard does not exist or belongs to another user.
func (a *App) DeleteFlashcard(user database.User, flashcardID int) error {
	flashcard, err := a.getOwnedFlashcard(user, flashcardID)
	if err != nil {
		return err
	}

	if err := a.DB.Delete(&flashcard).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting flashcard")
	}

	return nil
}

// BatchItem is a single flashcard to be created in a batch
type BatchItem struct {
	Front  string
	Back   string
	Edited bool
}

// CreateFlashcardBatch persists AI-generated flashcards accepted from the
// given generation. The generation must belong to the user; otherwise
// nothing is created and ErrNotFound is returned. All flashcards are
// inserted in a single transaction. A failure to update the generation's
// acceptance metrics afterwards is logged but does not fail the operation.
func (a *App) CreateFlashcardBatch(user database.User, generationID int, items []BatchItem) ([]database.Flashcard, error) {
	var generation database.Generation
	err := a.DB.Where("id = ?", generationID).First(&generation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding generation")
	}
	if !permissions.ViewGeneration(&user, generation) {
		return nil, ErrNotFound
	}

	flashcards := make([]database.Flashcard, 0, len(items))
	for _, item := range items {
		flashcards = append(flashcards, database.Flashcard{
			UserID:       user.ID,
			Front:        item.Front,
			Back:         item.Back,
			Source:       database.FlashcardSourceAI,
			GenerationID: &generation.ID,
		})
	}

	tx := a.DB.Begin()
	if err := tx.Create(&flashcards).Error; err != nil {
		tx.Rollback()
		return nil, pkgErrors.Wrap(err, "inserting flashcards")
	}
	if err := tx.Commit().Error; err != nil {
		return nil, pkgErrors.Wrap(err, "committing transaction")
	}

	var unedited, edited int
	for _, item := range items {
		if item.Edited {
			edited++
		} else {
			unedited++
		}
	}

	if err := a.UpdateGenerationMetrics(user.ID, generation.ID, unedited, edited); err != nil {
		log.WithFields(log.Fields{
			"generation_id": generation.ID,
		}).ErrorWrap(err, "updating generation metrics")
	}

	return flashcards, nil
}
