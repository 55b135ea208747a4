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

	"github.com/cardbox/cardbox/pkg/server/log"
)

// ErrorBody is the shape of an error response payload
type ErrorBody struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// RespondJSON writes the JSON-encoding of the given value with the given
// status code
func RespondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

// RespondError writes an error response with the given status code
func RespondError(w http.ResponseWriter, statusCode int, errLabel, message string, details map[string][]string) {
	RespondJSON(w, statusCode, ErrorBody{
		Error:   errLabel,
		Message: message,
		Details: details,
	})
}

// RespondUnauthorized writes a 401 response
func RespondUnauthorized(w http.ResponseWriter) {
	RespondError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required", nil)
}

// RespondNotFound writes a 404 response
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, "Not found", message, nil)
}

// DoError logs the given error and writes an error response without leaking
// its details to the client
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	log.WithFields(log.Fields{
		"statusCode": statusCode,
	}).ErrorWrap(err, msg)

	var label string
	if statusCode >= 500 {
		label = "Internal server error"
	} else {
		label = http.StatusText(statusCode)
	}

	RespondError(w, statusCode, label, "An error occurred while processing the request", nil)
}
