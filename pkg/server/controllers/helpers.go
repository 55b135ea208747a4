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
	"net/http"
	"strconv"
	"time"

	"github.com/cardbox/cardbox/pkg/server/app"
	"github.com/cardbox/cardbox/pkg/server/database"
	mw "github.com/cardbox/cardbox/pkg/server/middleware"
	"github.com/cardbox/cardbox/pkg/server/presenters"
	"github.com/cardbox/cardbox/pkg/server/validate"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

// errInvalidRequestData is an error for a request body or parameter that
// cannot be parsed
var errInvalidRequestData = errors.New("invalid request data")

var schemaDecoder = newSchemaDecoder()

func newSchemaDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// parseRequestData decodes the JSON body of the request into the given value
func parseRequestData(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(errInvalidRequestData, err.Error())
	}

	return nil
}

// listQueryForm is the raw listing query parameters
type listQueryForm struct {
	Page   int    `schema:"page"`
	Limit  int    `schema:"limit"`
	Search string `schema:"search"`
	Source string `schema:"source"`
	Sort   string `schema:"sort"`
	Order  string `schema:"order"`
}

// parseListQuery decodes and validates the listing query parameters
func parseListQuery(r *http.Request) (validate.ListQuery, error) {
	var form listQueryForm
	if err := schemaDecoder.Decode(&form, r.URL.Query()); err != nil {
		return validate.ListQuery{}, errors.Wrap(errInvalidRequestData, err.Error())
	}

	return validate.ListParams(validate.ListQuery{
		Page:   form.Page,
		Limit:  form.Limit,
		Search: form.Search,
		Source: form.Source,
		Sort:   form.Sort,
		Order:  form.Order,
	})
}

// getIntParam parses a positive integer route parameter
func getIntParam(r *http.Request, name string) (int, error) {
	vars := mux.Vars(r)

	ret, err := strconv.Atoi(vars[name])
	if err != nil || ret < 1 {
		return 0, errors.Wrapf(errInvalidRequestData, "invalid %s", name)
	}

	return ret, nil
}

// respondData writes the given value wrapped in a data envelope
func respondData(w http.ResponseWriter, statusCode int, v interface{}) {
	mw.RespondJSON(w, statusCode, map[string]interface{}{"data": v})
}

func respondWithSession(w http.ResponseWriter, statusCode int, session *database.Session) {
	mw.RespondJSON(w, statusCode, presenters.PresentSession(*session))
}

// handleJSONError writes an error response appropriate for the given error
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	var fieldErrs validate.FieldErrors

	switch {
	case errors.As(err, &fieldErrs):
		mw.RespondError(w, http.StatusUnprocessableEntity, "Validation error", "Validation failed", fieldErrs)
	case errors.Is(err, app.ErrNotFound):
		mw.RespondNotFound(w, "Resource not found")
	case errors.Is(err, app.ErrLoginInvalid):
		mw.RespondError(w, http.StatusUnauthorized, "Unauthorized", err.Error(), nil)
	case errors.Is(err, app.ErrEmailRequired),
		errors.Is(err, app.ErrPasswordRequired),
		errors.Is(err, app.ErrPasswordTooShort),
		errors.Is(err, app.ErrPasswordConfirmationMismatch),
		errors.Is(err, app.ErrDuplicateEmail):
		mw.RespondError(w, http.StatusUnprocessableEntity, "Validation error", err.Error(), nil)
	case errors.Is(err, app.ErrRegistrationDisabled):
		mw.RespondError(w, http.StatusForbidden, "Forbidden", err.Error(), nil)
	case errors.Is(err, app.ErrAIUnavailable):
		mw.RespondError(w, http.StatusServiceUnavailable, "Service unavailable", "AI generation service is currently unavailable. Please try again later.", nil)
	case errors.Is(err, errInvalidRequestData):
		mw.RespondError(w, http.StatusBadRequest, "Bad request", "Invalid request data", nil)
	default:
		mw.DoError(w, msg, err, http.StatusInternalServerError)
	}
}

func setSessionCookie(w http.ResponseWriter, key string, expires time.Time) {
	cookie := http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    key,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, &cookie)
}

func unsetSessionCookie(w http.ResponseWriter) {
	cookie := http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, &cookie)
}
