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

// Package app encapsulates the application logic of the server. Controllers
// stay thin and delegate to an App.
package app

import (
	"context"

	"github.com/cardbox/cardbox/pkg/clock"
	"github.com/cardbox/cardbox/pkg/server/openrouter"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyWebURL is an error for missing WebURL content in the app configuration
	ErrEmptyWebURL = errors.New("No WebURL was provided")
)

var (
	// ErrNotFound is an error for a nonexistent resource
	ErrNotFound = errors.New("not found")
	// ErrLoginInvalid is an error for invalid credentials
	ErrLoginInvalid = errors.New("Wrong email and password combination")
	// ErrEmailRequired is an error for an empty email on registration
	ErrEmailRequired = errors.New("Email is required")
	// ErrPasswordRequired is an error for an empty password on login
	ErrPasswordRequired = errors.New("Password is required")
	// ErrPasswordTooShort is an error for a password shorter than the minimum
	ErrPasswordTooShort = errors.New("Password should be longer than 8 characters")
	// ErrPasswordConfirmationMismatch is an error for a password mismatching its confirmation
	ErrPasswordConfirmationMismatch = errors.New("Password mismatch")
	// ErrDuplicateEmail is an error for an email that is already registered
	ErrDuplicateEmail = errors.New("Duplicate email")
	// ErrRegistrationDisabled is an error for registration on a closed server
	ErrRegistrationDisabled = errors.New("Registration is disabled")
	// ErrUserHasExistingResources is an error for removing a user that still owns flashcards or generations
	ErrUserHasExistingResources = errors.New("user has existing flashcards or generations")
	// ErrAIUnavailable is an error for a failed or unconfigured AI generation backend
	ErrAIUnavailable = errors.New("AI generation service is currently unavailable")
)

// GenerationClient produces flashcard proposals from source text
type GenerationClient interface {
	GenerateFlashcards(ctx context.Context, sourceText string, count int) ([]openrouter.Proposal, error)
	Model() string
}

// App is an application context
type App struct {
	DB                  *gorm.DB
	Clock               clock.Clock
	AI                  GenerationClient
	WebURL              string
	AppEnv              string
	Port                string
	DBPath              string
	DisableRegistration bool
	ProposalCount       int
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.WebURL == "" {
		return ErrEmptyWebURL
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.DB == nil {
		return ErrEmptyDB
	}

	return nil
}
