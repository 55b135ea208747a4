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
	"fmt"
	"testing"

	"github.com/cardbox/cardbox/pkg/assert"
	"github.com/cardbox/cardbox/pkg/server/database"
	"github.com/cardbox/cardbox/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestCreateFlashcard(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	a := NewTest()
	a.DB = db

	flashcard, err := a.CreateFlashcard(user, "What is Go?", "A programming language")
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating flashcard"))
	}

	var count int64
	var record database.Flashcard
	testutils.MustExec(t, db.Model(&database.Flashcard{}).Count(&count), "counting flashcards")
	testutils.MustExec(t, db.First(&record), "finding flashcard")

	assert.Equal(t, count, int64(1), "flashcard count mismatch")
	assert.Equal(t, record.UserID, user.ID, "UserID mismatch")
	assert.Equal(t, record.Front, "What is Go?", "Front mismatch")
	assert.Equal(t, record.Back, "A programming language", "Back mismatch")
	assert.Equal(t, record.Source, database.FlashcardSourceManual, "Source mismatch")
	assert.Equal(t, flashcard.ID, record.ID, "returned ID mismatch")

	if record.GenerationID != nil {
		t.Errorf("GenerationID mismatch. Expected nil, got %v", *record.GenerationID)
	}
}

func TestGetFlashcards(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	anotherUser := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	f1 := testutils.SetupFlashcardData(db, user, "What is a goroutine?", "A lightweight thread")
	f2 := testutils.SetupFlashcardData(db, user, "What is a channel?", "A typed conduit")
	testutils.SetupFlashcardData(db, anotherUser, "What is Python?", "Another language")

	generation := testutils.SetupGenerationData(db, user, "openai/gpt-4o-mini", 2)
	f3 := database.Flashcard{
		UserID:       user.ID,
		Front:        "What is GOMAXPROCS?",
		Back:         "The number of OS threads executing user-level code",
		Source:       database.FlashcardSourceAI,
		GenerationID: &generation.ID,
	}
	testutils.MustExec(t, db.Save(&f3), "preparing ai flashcard")

	a := NewTest()
	a.DB = db

	t.Run("scoped to user", func(t *testing.T) {
		res, err := a.GetFlashcards(user.ID, GetFlashcardsParams{Page: 1, Limit: 30})
		if err != nil {
			t.Fatal(errors.Wrap(err, "getting flashcards"))
		}

		assert.Equal(t, res.Total, int64(3), "total mismatch")
		assert.Equal(t, len(res.Flashcards), 3, "result count mismatch")

		for _, flashcard := range res.Flashcards {
			assert.Equal(t, flashcard.UserID, user.ID, "UserID mismatch")
		}
	})

	t.Run("search matches front or back case-insensitively", func(t *testing.T) {
		res, err := a.GetFlashcards(user.ID, GetFlashcardsParams{Page: 1, Limit: 30, Search: "GOROUTINE"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "getting flashcards"))
		}

		assert.Equal(t, res.Total, int64(1), "total mismatch")
		assert.Equal(t, res.Flashcards[0].ID, f1.ID, "flashcard ID mismatch")

		res, err = a.GetFlashcards(user.ID, GetFlashcardsParams{Page: 1, Limit: 30, Search: "conduit"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "getting flashcards"))
		}

		assert.Equal(t, res.Total, int64(1), "total mismatch")
		assert.Equal(t, res.Flashcards[0].ID, f2.ID, "flashcard ID mismatch")
	})

	t.Run("filter by source", func(t *testing.T) {
		res, err := a.GetFlashcards(user.ID, GetFlashcardsParams{Page: 1, Limit: 30, Source: database.FlashcardSourceAI})
		if err != nil {
			t.Fatal(errors.Wrap(err, "getting flashcards"))
		}

		assert.Equal(t, res.Total, int64(1), "total mismatch")
		assert.Equal(t, res.Flashcards[0].ID, f3.ID, "flashcard ID mismatch")
	})

	t.Run("no match returns empty page", func(t *testing.T) {
		res, err := a.GetFlashcards(user.ID, GetFlashcardsParams{Page: 1, Limit: 30, Search: "nonexistent"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "getting flashcards"))
		}

		assert.Equal(t, res.Total, int64(0), "total mismatch")
		assert.Equal(t, len(res.Flashcards), 0, "result count mismatch")
	})
}

func TestGetFlashcardsPagination(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	for i := 0; i < 5; i++ {
		testutils.SetupFlashcardData(db, user, fmt.Sprintf("front %d", i), fmt.Sprintf("back %d", i))
	}

	a := NewTest()
	a.DB = db

	res, err := a.GetFlashcards(user.ID, GetFlashcardsParams{Page: 1, Limit: 2})
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting page 1"))
	}
	assert.Equal(t, res.Total, int64(5), "total mismatch")
	assert.Equal(t, len(res.Flashcards), 2, "page 1 count mismatch")

	res, err = a.GetFlashcards(user.ID, GetFlashcardsParams{Page: 3, Limit: 2})
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting page 3"))
	}
	assert.Equal(t, len(res.Flashcards), 1, "page 3 count mismatch")

	res, err = a.GetFlashcards(user.ID, GetFlashcardsParams{Page: 4, Limit: 2})
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting page 4"))
	}
	assert.Equal(t, len(res.Flashcards), 0, "page 4 count mismatch")
}

func TestGetFlashcardsOrder(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	f1 := testutils.SetupFlashcardData(db, user, "first", "card")
	f2 := testutils.SetupFlashcardData(db, user, "second", "card")
	f3 := testutils.SetupFlashcardData(db, user, "third", "card")

	// Space out the timestamps so that ordering is deterministic
	testutils.MustExec(t, db.Model(&database.Flashcard{}).Where("id = ?", f1.ID).Update("created_at", "2025-01-01 00:00:00"), "preparing f1")
	testutils.MustExec(t, db.Model(&database.Flashcard{}).Where("id = ?", f2.ID).Update("created_at", "2025-01-02 00:00:00"), "preparing f2")
	testutils.MustExec(t, db.Model(&database.Flashcard{}).Where("id = ?", f3.ID).Update("created_at", "2025-01-03 00:00:00"), "preparing f3")

	a := NewTest()
	a.DB = db

	res, err := a.GetFlashcards(user.ID, GetFlashcardsParams{Page: 1, Limit: 30, Sort: "created_at", Order: "desc"})
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting flashcards desc"))
	}
	assert.Equal(t, res.Flashcards[0].ID, f3.ID, "desc first ID mismatch")
	assert.Equal(t, res.Flashcards[2].ID, f1.ID, "desc last ID mismatch")

	res, err = a.GetFlashcards(user.ID, GetFlashcardsParams{Page: 1, Limit: 30, Sort: "created_at", Order: "asc"})
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting flashcards asc"))
	}
	assert.Equal(t, res.Flashcards[0].ID, f1.ID, "asc first ID mismatch")
	assert.Equal(t, res.Flashcards[2].ID, f3.ID, "asc last ID mismatch")
}

func TestUpdateFlashcard(t *testing.T) {
	t.Run("updates own flashcard", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		flashcard := testutils.SetupFlashcardData(db, user, "old front", "old back")

		a := NewTest()
		a.DB = db

		got, err := a.UpdateFlashcard(user, flashcard.ID, "new front", "new back")
		if err != nil {
			t.Fatal(errors.Wrap(err, "updating flashcard"))
		}

		assert.Equal(t, got.Front, "new front", "Front mismatch")
		assert.Equal(t, got.Back, "new back", "Back mismatch")

		var record database.Flashcard
		testutils.MustExec(t, db.Where("id = ?", flashcard.ID).First(&record), "finding flashcard")
		assert.Equal(t, record.Front, "new front", "persisted Front mismatch")
	})

	t.Run("nonexistent flashcard", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db

		_, err := a.UpdateFlashcard(user, 999, "front", "back")
		assert.Equal(t, err, ErrNotFound, "error mismatch")
	})

	t.Run("flashcard of another user", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		anotherUser := testutils.SetupUserData(db, "bob@example.com", "pass1234")
		flashcard := testutils.SetupFlashcardData(db, anotherUser, "front", "back")

		a := NewTest()
		a.DB = db

		_, err := a.UpdateFlashcard(user, flashcard.ID, "new front", "new back")
		assert.Equal(t, err, ErrNotFound, "error mismatch")

		var record database.Flashcard
		testutils.MustExec(t, db.Where("id = ?", flashcard.ID).First(&record), "finding flashcard")
		assert.Equal(t, record.Front, "front", "Front should be unchanged")
	})
}

func TestDeleteFlashcard(t *testing.T) {
	t.Run("deletes own flashcard", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		flashcard := testutils.SetupFlashcardData(db, user, "front", "back")

		a := NewTest()
		a.DB = db

		if err := a.DeleteFlashcard(user, flashcard.ID); err != nil {
			t.Fatal(errors.Wrap(err, "deleting flashcard"))
		}

		var count int64
		testutils.MustExec(t, db.Model(&database.Flashcard{}).Count(&count), "counting flashcards")
		assert.Equal(t, count, int64(0), "flashcard count mismatch")
	})

	t.Run("flashcard of another user", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		anotherUser := testutils.SetupUserData(db, "bob@example.com", "pass1234")
		flashcard := testutils.SetupFlashcardData(db, anotherUser, "front", "back")

		a := NewTest()
		a.DB = db

		err := a.DeleteFlashcard(user, flashcard.ID)
		assert.Equal(t, err, ErrNotFound, "error mismatch")

		var count int64
		testutils.MustExec(t, db.Model(&database.Flashcard{}).Count(&count), "counting flashcards")
		assert.Equal(t, count, int64(1), "flashcard count mismatch")
	})
}

func TestCreateFlashcardBatch(t *testing.T) {
	t.Run("creates flashcards and records metrics", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		generation := testutils.SetupGenerationData(db, user, "openai/gpt-4o-mini", 3)

		a := NewTest()
		a.DB = db

		items := []BatchItem{
			{Front: "f1", Back: "b1", Edited: false},
			{Front: "f2", Back: "b2", Edited: true},
			{Front: "f3", Back: "b3", Edited: false},
		}

		flashcards, err := a.CreateFlashcardBatch(user, generation.ID, items)
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating batch"))
		}

		assert.Equal(t, len(flashcards), 3, "returned count mismatch")

		var count int64
		testutils.MustExec(t, db.Model(&database.Flashcard{}).Count(&count), "counting flashcards")
		assert.Equal(t, count, int64(3), "flashcard count mismatch")

		var record database.Flashcard
		testutils.MustExec(t, db.First(&record), "finding flashcard")
		assert.Equal(t, record.Source, database.FlashcardSourceAI, "Source mismatch")
		assert.Equal(t, *record.GenerationID, generation.ID, "GenerationID mismatch")

		var generationRecord database.Generation
		testutils.MustExec(t, db.Where("id = ?", generation.ID).First(&generationRecord), "finding generation")
		assert.Equal(t, *generationRecord.AcceptedUneditedCount, 2, "AcceptedUneditedCount mismatch")
		assert.Equal(t, *generationRecord.AcceptedEditedCount, 1, "AcceptedEditedCount mismatch")
	})

	t.Run("generation of another user", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		anotherUser := testutils.SetupUserData(db, "bob@example.com", "pass1234")
		generation := testutils.SetupGenerationData(db, anotherUser, "openai/gpt-4o-mini", 1)

		a := NewTest()
		a.DB = db

		_, err := a.CreateFlashcardBatch(user, generation.ID, []BatchItem{{Front: "f", Back: "b"}})
		assert.Equal(t, err, ErrNotFound, "error mismatch")

		var count int64
		testutils.MustExec(t, db.Model(&database.Flashcard{}).Count(&count), "counting flashcards")
		assert.Equal(t, count, int64(0), "flashcard count mismatch")
	})

	t.Run("nonexistent generation", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db

		_, err := a.CreateFlashcardBatch(user, 999, []BatchItem{{Front: "f", Back: "b"}})
		assert.Equal(t, err, ErrNotFound, "error mismatch")
	})

	t.Run("metrics update failure keeps the flashcards", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		generation := testutils.SetupGenerationData(db, user, "openai/gpt-4o-mini", 2)

		// Break the metrics update without touching the flashcards table
		testutils.MustExec(t, db.Exec("ALTER TABLE generations DROP COLUMN accepted_unedited_count"), "dropping metrics column")

		a := NewTest()
		a.DB = db

		items := []BatchItem{
			{Front: "f1", Back: "b1", Edited: false},
			{Front: "f2", Back: "b2", Edited: true},
		}

		flashcards, err := a.CreateFlashcardBatch(user, generation.ID, items)
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating batch"))
		}

		assert.Equal(t, len(flashcards), 2, "returned count mismatch")

		var count int64
		testutils.MustExec(t, db.Model(&database.Flashcard{}).Count(&count), "counting flashcards")
		assert.Equal(t, count, int64(2), "flashcard count mismatch")
	})
}
