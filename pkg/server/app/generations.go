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
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"unicode/utf8"

	"github.com/cardbox/cardbox/pkg/server/database"
	"github.com/cardbox/cardbox/pkg/server/log"
	"github.com/cardbox/cardbox/pkg/server/openrouter"
	pkgErrors "github.com/pkg/errors"
)

// error codes recorded in generation error logs
const (
	errCodeOpenRouter = "OPENROUTER_ERROR"
	errCodeTimeout    = "TIMEOUT"
	errCodeDatabase   = "DATABASE_ERROR"
)

// HashSourceText returns the sha256 hex digest of the given source text
func HashSourceText(text string) string {
	sum := sha256.Sum256([]byte(text))

	return hex.EncodeToString(sum[:])
}

// UpdateGenerationMetrics records how many proposals from the generation
// were accepted with and without edits
func (a *App) UpdateGenerationMetrics(userID, generationID int, unedited, edited int) error {
	conn := a.DB.Model(&database.Generation{}).
		Where("id = ? AND user_id = ?", generationID, userID).
		Updates(map[string]interface{}{
			"accepted_unedited_count": unedited,
			"accepted_edited_count":   edited,
		})
	if conn.Error != nil {
		return pkgErrors.Wrap(conn.Error, "updating generation metrics")
	}
	if conn.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// LogGenerationError records a failed generation attempt. It never returns
// an error; a failure to write the log entry is itself logged and swallowed.
func (a *App) LogGenerationError(userID int, model, sourceTextHash string, sourceTextLength int, code, message string) {
	entry := database.GenerationErrorLog{
		UserID:           userID,
		AIModel:          model,
		SourceTextHash:   sourceTextHash,
		SourceTextLength: sourceTextLength,
		ErrorCode:        code,
		ErrorMessage:     message,
	}

	if err := a.DB.Create(&entry).Error; err != nil {
		log.WithFields(log.Fields{
			"user_id": userID,
			"code":    code,
		}).ErrorWrap(err, "writing generation error log")
	}
}

// DeleteOldGenerationErrorLogs removes error log entries older than the
// given number of days
func (a *App) DeleteOldGenerationErrorLogs(days int) (int64, error) {
	cutoff := a.Clock.Now().AddDate(0, 0, -days)

	conn := a.DB.Where("created_at < ?", cutoff).Delete(&database.GenerationErrorLog{})
	if conn.Error != nil {
		return 0, pkgErrors.Wrap(conn.Error, "deleting old error logs")
	}

	return conn.RowsAffected, nil
}

// GenerateResult is the result of generating flashcard proposals
type GenerateResult struct {
	Generation database.Generation
	Proposals  []openrouter.Proposal
}

// GenerateFlashcards asks the AI backend for flashcard proposals from the
// given source text and records the generation. On an AI failure it writes
// a generation error log and returns ErrAIUnavailable.
func (a *App) GenerateFlashcards(ctx context.Context, user database.User, sourceText string) (GenerateResult, error) {
	hash := HashSourceText(sourceText)
	length := utf8.RuneCountInString(sourceText)

	if a.AI == nil {
		a.LogGenerationError(user.ID, "", hash, length, errCodeOpenRouter, "no AI backend configured")
		return GenerateResult{}, ErrAIUnavailable
	}

	count := a.ProposalCount
	if count <= 0 {
		count = 12
	}

	start := a.Clock.Now()
	proposals, err := a.AI.GenerateFlashcards(ctx, sourceText, count)
	duration := a.Clock.Now().Sub(start).Milliseconds()

	if err != nil {
		code := errCodeOpenRouter
		if errors.Is(err, openrouter.ErrTimeout) {
			code = errCodeTimeout
		}
		a.LogGenerationError(user.ID, a.AI.Model(), hash, length, code, err.Error())

		log.WithFields(log.Fields{
			"user_id": user.ID,
		}).ErrorWrap(err, "generating flashcards")

		return GenerateResult{}, ErrAIUnavailable
	}

	generation := database.Generation{
		UserID:             user.ID,
		AIModel:            a.AI.Model(),
		GeneratedCount:     len(proposals),
		SourceTextHash:     hash,
		SourceTextLength:   length,
		GenerationDuration: duration,
	}
	if err := a.DB.Create(&generation).Error; err != nil {
		a.LogGenerationError(user.ID, a.AI.Model(), hash, length, errCodeDatabase, err.Error())
		return GenerateResult{}, pkgErrors.Wrap(err, "inserting generation")
	}

	return GenerateResult{Generation: generation, Proposals: proposals}, nil
}
