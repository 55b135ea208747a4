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

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardbox/cardbox/pkg/assert"
	"github.com/pkg/errors"
)

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()

	RespondError(w, http.StatusUnprocessableEntity, "Validation error", "Validation failed", map[string][]string{
		"front": {"Front field cannot be empty"},
	})

	assert.Equal(t, w.Code, http.StatusUnprocessableEntity, "status code mismatch")
	assert.Equal(t, w.Header().Get("Content-Type"), "application/json", "content type mismatch")

	var body ErrorBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(errors.Wrap(err, "decoding body"))
	}

	assert.Equal(t, body.Error, "Validation error", "error label mismatch")
	assert.Equal(t, body.Message, "Validation failed", "message mismatch")
	assert.DeepEqual(t, body.Details["front"], []string{"Front field cannot be empty"}, "details mismatch")
}

func TestRespondUnauthorized(t *testing.T) {
	w := httptest.NewRecorder()

	RespondUnauthorized(w)

	assert.Equal(t, w.Code, http.StatusUnauthorized, "status code mismatch")

	var body ErrorBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(errors.Wrap(err, "decoding body"))
	}
	assert.Equal(t, body.Error, "Unauthorized", "error label mismatch")
}

func TestDoError(t *testing.T) {
	w := httptest.NewRecorder()

	DoError(w, "doing something", errors.New("underlying detail"), http.StatusInternalServerError)

	assert.Equal(t, w.Code, http.StatusInternalServerError, "status code mismatch")

	var body ErrorBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(errors.Wrap(err, "decoding body"))
	}

	assert.Equal(t, body.Error, "Internal server error", "error label mismatch")

	// The underlying error detail must not leak to the client
	assert.Equal(t, body.Message, "An error occurred while processing the request", "message mismatch")
}

func TestRecovery(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	Recovery(handler).ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusInternalServerError, "status code mismatch")
}
