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

// Package middleware provides handler middleware and response helpers
package middleware

import (
	"net/http"
	"time"

	"github.com/cardbox/cardbox/pkg/server/app"
	"github.com/cardbox/cardbox/pkg/server/log"
	"github.com/pkg/errors"
)

// Middleware is a function that wraps a route handler
type Middleware func(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler

// APIMw is the middleware chain for API endpoints
func APIMw(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	return ApplyLimit(h, rateLimit)
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Logging is a middleware that writes a structured log line per request
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(&sw, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   sw.statusCode,
			"duration": time.Since(start).Milliseconds(),
		}).Info("request")
	})
}

// Recovery is a middleware that recovers from panics in the handler chain
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := errors.Errorf("panic: %v", rec)
				DoError(w, "recovering from a panic", err, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// Global wraps the given handler with the middleware applied to every route
func Global(h http.Handler) http.Handler {
	return Logging(Recovery(h))
}
