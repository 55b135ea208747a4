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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cardbox/cardbox/pkg/assert"
	"github.com/cardbox/cardbox/pkg/server/app"
	"github.com/cardbox/cardbox/pkg/server/database"
	"github.com/cardbox/cardbox/pkg/server/openrouter"
	"github.com/cardbox/cardbox/pkg/server/presenters"
	"github.com/cardbox/cardbox/pkg/server/testutils"
	"github.com/pkg/errors"
)

// newMockOpenRouter returns a test server that responds to chat completion
// requests with the given message content
func newMockOpenRouter(t *testing.T, content string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{
					"message": map[string]interface{}{
						"content": content,
					},
				},
			},
		}
		testutils.MustRespondJSON(t, w, resp, "responding with completion")
	}))
}

func TestCreateGeneration(t *testing.T) {
	sourceText := strings.Repeat("a", 150)

	t.Run("creates a generation", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		aiServer := newMockOpenRouter(t, `{"flashcards": [{"front": "f1", "back": "b1"}, {"front": "f2", "back": "b2"}]}`)
		defer aiServer.Close()

		a := app.NewTest()
		a.DB = db
		a.AI = openrouter.NewClient(openrouter.Config{
			APIKey:  "test-key",
			Model:   "openai/gpt-4o-mini",
			BaseURL: aiServer.URL,
		})

		server := MustNewServer(t, &a)
		defer server.Close()

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		payload := fmt.Sprintf(`{"source_text": %q}`, sourceText)
		req := testutils.MakeReq(server.URL, "POST", "/api/generations", payload)
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusCreated, "")

		var body struct {
			Data presenters.GenerationResult `json:"data"`
		}
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			t.Fatal(errors.Wrap(err, "decoding payload"))
		}

		assert.Equal(t, body.Data.Model, "openai/gpt-4o-mini", "Model mismatch")
		assert.Equal(t, body.Data.GeneratedCount, 2, "GeneratedCount mismatch")
		assert.Equal(t, len(body.Data.Proposals), 2, "proposals length mismatch")
		assert.Equal(t, body.Data.Proposals[0].Front, "f1", "proposal Front mismatch")

		var record database.Generation
		testutils.MustExec(t, db.First(&record), "finding generation")
		assert.Equal(t, record.UserID, user.ID, "UserID mismatch")
		assert.Equal(t, record.SourceTextHash, app.HashSourceText(sourceText), "SourceTextHash mismatch")
		assert.Equal(t, record.SourceTextLength, 150, "SourceTextLength mismatch")
		assert.Equal(t, body.Data.GenerationID, record.ID, "GenerationID mismatch")
	})

	t.Run("upstream failure", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		aiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer aiServer.Close()

		a := app.NewTest()
		a.DB = db
		a.AI = openrouter.NewClient(openrouter.Config{
			APIKey:  "test-key",
			Model:   "openai/gpt-4o-mini",
			BaseURL: aiServer.URL,
		})

		server := MustNewServer(t, &a)
		defer server.Close()

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		payload := fmt.Sprintf(`{"source_text": %q}`, sourceText)
		req := testutils.MakeReq(server.URL, "POST", "/api/generations", payload)
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusServiceUnavailable, "")

		var entry database.GenerationErrorLog
		testutils.MustExec(t, db.First(&entry), "finding error log")
		assert.Equal(t, entry.UserID, user.ID, "UserID mismatch")
		assert.Equal(t, entry.ErrorCode, "OPENROUTER_ERROR", "ErrorCode mismatch")
	})

	t.Run("malformed completion content", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		aiServer := newMockOpenRouter(t, "this is not json")
		defer aiServer.Close()

		a := app.NewTest()
		a.DB = db
		a.AI = openrouter.NewClient(openrouter.Config{
			APIKey:  "test-key",
			Model:   "openai/gpt-4o-mini",
			BaseURL: aiServer.URL,
		})

		server := MustNewServer(t, &a)
		defer server.Close()

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		payload := fmt.Sprintf(`{"source_text": %q}`, sourceText)
		req := testutils.MakeReq(server.URL, "POST", "/api/generations", payload)
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusServiceUnavailable, "")
	})

	t.Run("source text too short", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := app.NewTest()
		a.DB = db

		server := MustNewServer(t, &a)
		defer server.Close()

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		req := testutils.MakeReq(server.URL, "POST", "/api/generations", `{"source_text": "too short"}`)
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusUnprocessableEntity, "")

		var count int64
		testutils.MustExec(t, db.Model(&database.GenerationErrorLog{}).Count(&count), "counting error logs")
		assert.Equal(t, count, int64(0), "error log count mismatch")
	})

	t.Run("guest", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := app.NewTest()
		a.DB = db

		server := MustNewServer(t, &a)
		defer server.Close()

		payload := fmt.Sprintf(`{"source_text": %q}`, sourceText)
		req := testutils.MakeReq(server.URL, "POST", "/api/generations", payload)
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "")
	})
}
