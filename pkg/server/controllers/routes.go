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
	"net/http"

	"github.com/cardbox/cardbox/pkg/server/app"
	mw "github.com/cardbox/cardbox/pkg/server/middleware"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"GET", "/health", c.Health.Index, true},
		{"POST", "/register", c.Users.Register, true},
		{"POST", "/signin", c.Users.Signin, true},
		{"POST", "/signout", c.Users.Signout, true},
		{"POST", "/auth/set-session", c.Users.SetSession, true},
		{"POST", "/auth/logout", c.Users.AuthLogout, true},
		{"GET", "/me", mw.Auth(a.DB, c.Users.GetMe), true},
		{"GET", "/flashcards", mw.Auth(a.DB, c.Flashcards.Index), true},
		{"POST", "/flashcards", mw.Auth(a.DB, c.Flashcards.Create), true},
		{"POST", "/flashcards/batch", mw.Auth(a.DB, c.Flashcards.CreateBatch), true},
		{"PUT", "/flashcards/{flashcardID}", mw.Auth(a.DB, c.Flashcards.Update), true},
		{"DELETE", "/flashcards/{flashcardID}", mw.Auth(a.DB, c.Flashcards.Delete), true},
		{"POST", "/generations", mw.Auth(a.DB, c.Generations.Create), true},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(a *app.App, rc RouteConfig) (http.Handler, error) {
	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter, mw.APIMw, a, rc.APIRoutes)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{a.WebURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return mw.Global(c.Handler(router)), nil
}
