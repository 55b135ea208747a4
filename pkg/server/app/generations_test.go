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
	"strings"
	"testing"

	"github.com/cardbox/cardbox/pkg/assert"
	"github.com/cardbox/cardbox/pkg/server/database"
	"github.com/cardbox/cardbox/pkg/server/openrouter"
	"github.com/cardbox/cardbox/pkg/server/testutils"
	"github.com/pkg/errors"
)

type mockGenerationClient struct {
	proposals []openrouter.Proposal
	err       error
	gotText   string
	gotCount  int
}

func (c *mockGenerationClient) GenerateFlashcards(ctx context.Context, sourceText string, count int) ([]openrouter.Proposal, error) {
	c.gotText = sourceText
	c.gotCount = count

	if c.err != nil {
		return nil, c.err
	}
	return c.proposals, nil
}

func (c *mockGenerationClient) Model() string {
	return "mock/model"
}

func TestHashSourceText(t *testing.T) {
	got := HashSourceText("hello")
	assert.Equal(t, got, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", "hash mismatch")
}

func TestGenerateFlashcards(t *testing.T) {
	sourceText := strings.Repeat("a", 150)

	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		ai := &mockGenerationClient{
			proposals: []openrouter.Proposal{
				{Front: "f1", Back: "b1"},
				{Front: "f2", Back: "b2"},
			},
		}

		a := NewTest()
		a.DB = db
		a.AI = ai

		res, err := a.GenerateFlashcards(context.Background(), user, sourceText)
		if err != nil {
			t.Fatal(errors.Wrap(err, "generating"))
		}

		assert.Equal(t, ai.gotText, sourceText, "source text mismatch")
		assert.Equal(t, ai.gotCount, 12, "proposal count mismatch")
		assert.Equal(t, len(res.Proposals), 2, "proposals length mismatch")

		var record database.Generation
		testutils.MustExec(t, db.First(&record), "finding generation")
		assert.Equal(t, record.UserID, user.ID, "UserID mismatch")
		assert.Equal(t, record.AIModel, "mock/model", "AIModel mismatch")
		assert.Equal(t, record.GeneratedCount, 2, "GeneratedCount mismatch")
		assert.Equal(t, record.SourceTextHash, HashSourceText(sourceText), "SourceTextHash mismatch")
		assert.Equal(t, record.SourceTextLength, 150, "SourceTextLength mismatch")

		if record.AcceptedUneditedCount != nil {
			t.Errorf("AcceptedUneditedCount mismatch. Expected nil, got %v", *record.AcceptedUneditedCount)
		}

		var errLogCount int64
		testutils.MustExec(t, db.Model(&database.GenerationErrorLog{}).Count(&errLogCount), "counting error logs")
		assert.Equal(t, errLogCount, int64(0), "error log count mismatch")
	})

	t.Run("ai failure writes error log", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db
		a.AI = &mockGenerationClient{err: errors.New("upstream exploded")}

		_, err := a.GenerateFlashcards(context.Background(), user, sourceText)
		assert.Equal(t, err, ErrAIUnavailable, "error mismatch")

		var generationCount int64
		testutils.MustExec(t, db.Model(&database.Generation{}).Count(&generationCount), "counting generations")
		assert.Equal(t, generationCount, int64(0), "generation count mismatch")

		var entry database.GenerationErrorLog
		testutils.MustExec(t, db.First(&entry), "finding error log")
		assert.Equal(t, entry.UserID, user.ID, "UserID mismatch")
		assert.Equal(t, entry.ErrorCode, "OPENROUTER_ERROR", "ErrorCode mismatch")
		assert.Equal(t, entry.ErrorMessage, "upstream exploded", "ErrorMessage mismatch")
		assert.Equal(t, entry.SourceTextHash, HashSourceText(sourceText), "SourceTextHash mismatch")
	})

	t.Run("timeout records distinct code", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db
		a.AI = &mockGenerationClient{err: openrouter.ErrTimeout}

		_, err := a.GenerateFlashcards(context.Background(), user, sourceText)
		assert.Equal(t, err, ErrAIUnavailable, "error mismatch")

		var entry database.GenerationErrorLog
		testutils.MustExec(t, db.First(&entry), "finding error log")
		assert.Equal(t, entry.ErrorCode, "TIMEOUT", "ErrorCode mismatch")
	})

	t.Run("no backend configured", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db

		_, err := a.GenerateFlashcards(context.Background(), user, sourceText)
		assert.Equal(t, err, ErrAIUnavailable, "error mismatch")
	})
}

func TestUpdateGenerationMetrics(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	generation := testutils.SetupGenerationData(db, user, "openai/gpt-4o-mini", 5)

	a := NewTest()
	a.DB = db

	if err := a.UpdateGenerationMetrics(user.ID, generation.ID, 3, 2); err != nil {
		t.Fatal(errors.Wrap(err, "updating metrics"))
	}

	var record database.Generation
	testutils.MustExec(t, db.Where("id = ?", generation.ID).First(&record), "finding generation")
	assert.Equal(t, *record.AcceptedUneditedCount, 3, "AcceptedUneditedCount mismatch")
	assert.Equal(t, *record.AcceptedEditedCount, 2, "AcceptedEditedCount mismatch")

	err := a.UpdateGenerationMetrics(user.ID, 999, 1, 1)
	assert.Equal(t, err, ErrNotFound, "error mismatch")
}

func TestLogGenerationError(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	a := NewTest()
	a.DB = db

	a.LogGenerationError(user.ID, "mock/model", "abc123", 200, "OPENROUTER_ERROR", "boom")

	var entry database.GenerationErrorLog
	testutils.MustExec(t, db.First(&entry), "finding error log")
	assert.Equal(t, entry.AIModel, "mock/model", "AIModel mismatch")
	assert.Equal(t, entry.SourceTextLength, 200, "SourceTextLength mismatch")
}

func TestDeleteOldGenerationErrorLogs(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	a := NewTest()
	a.DB = db

	a.LogGenerationError(user.ID, "mock/model", "abc123", 200, "OPENROUTER_ERROR", "old")
	testutils.MustExec(t, db.Model(&database.GenerationErrorLog{}).Where("error_message = ?", "old").Update("created_at", "2000-01-01 00:00:00"), "backdating error log")
	a.LogGenerationError(user.ID, "mock/model", "abc123", 200, "OPENROUTER_ERROR", "recent")

	deleted, err := a.DeleteOldGenerationErrorLogs(90)
	if err != nil {
		t.Fatal(errors.Wrap(err, "deleting old error logs"))
	}

	assert.Equal(t, deleted, int64(1), "deleted count mismatch")

	var count int64
	testutils.MustExec(t, db.Model(&database.GenerationErrorLog{}).Count(&count), "counting error logs")
	assert.Equal(t, count, int64(1), "error log count mismatch")
}
