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
	"github.com/cardbox/cardbox/pkg/server/context"
	"github.com/cardbox/cardbox/pkg/server/database"
	mw "github.com/cardbox/cardbox/pkg/server/middleware"
	"github.com/cardbox/cardbox/pkg/server/presenters"
	pkgErrors "github.com/pkg/errors"
)

// NewUsers creates a new Users controller
func NewUsers(app *app.App) *Users {
	return &Users{
		app: app,
	}
}

// Users is a user controller
type Users struct {
	app *app.App
}

// RegistrationForm is the form data for registering
type RegistrationForm struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Register handles register
func (u *Users) Register(w http.ResponseWriter, r *http.Request) {
	if u.app.DisableRegistration {
		handleJSONError(w, app.ErrRegistrationDisabled, "registration is disabled")
		return
	}

	var form RegistrationForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.CreateUser(form.Email, form.Password, form.PasswordConfirmation)
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	session, err := u.app.SignIn(&user)
	if err != nil {
		handleJSONError(w, err, "signing in a user")
		return
	}

	setSessionCookie(w, session.Key, session.ExpiresAt)
	respondWithSession(w, http.StatusCreated, session)
}

// LoginForm is the form data for log in
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (u *Users) login(form LoginForm) (*database.Session, error) {
	if form.Email == "" {
		return nil, app.ErrEmailRequired
	}
	if form.Password == "" {
		return nil, app.ErrPasswordRequired
	}

	user, err := u.app.Authenticate(form.Email, form.Password)
	if err != nil {
		return nil, err
	}

	s, err := u.app.SignIn(user)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Signin handles login via the API
func (u *Users) Signin(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	session, err := u.login(form)
	if err != nil {
		handleJSONError(w, err, "logging in user")
		return
	}

	setSessionCookie(w, session.Key, session.ExpiresAt)
	respondWithSession(w, http.StatusOK, session)
}

func (u *Users) logout(r *http.Request) (bool, error) {
	key, err := mw.GetCredential(r)
	if err != nil {
		return false, pkgErrors.Wrap(err, "getting credentials")
	}

	if key == "" {
		return false, nil
	}

	if err = u.app.DeleteSession(key); err != nil {
		return false, pkgErrors.Wrap(err, "deleting session")
	}

	return true, nil
}

// Signout handles logout via the API
func (u *Users) Signout(w http.ResponseWriter, r *http.Request) {
	ok, err := u.logout(r)
	if err != nil {
		handleJSONError(w, err, "logging out")
		return
	}

	if ok {
		unsetSessionCookie(w)
	}

	w.WriteHeader(http.StatusNoContent)
}

type setSessionPayload struct {
	Key string `json:"key"`
}

// SetSession sets the session cookie from a session key obtained through
// the API. It allows a browser client to authenticate subsequent requests
// with the cookie.
func (u *Users) SetSession(w http.ResponseWriter, r *http.Request) {
	var payload setSessionPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if payload.Key == "" {
		handleJSONError(w, pkgErrors.Wrap(errInvalidRequestData, "missing key"), "parsing payload")
		return
	}

	session, err := u.app.GetSessionByKey(payload.Key)
	if err != nil {
		handleJSONError(w, err, "finding session")
		return
	}
	if session == nil {
		mw.RespondUnauthorized(w)
		return
	}

	setSessionCookie(w, session.Key, session.ExpiresAt)
	respondWithSession(w, http.StatusOK, session)
}

// GetMe returns the authenticated user
func (u *Users) GetMe(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	respondData(w, http.StatusOK, presenters.PresentUser(*user))
}

// AuthLogout clears the session cookie and deletes the session it carried
func (u *Users) AuthLogout(w http.ResponseWriter, r *http.Request) {
	ok, err := u.logout(r)
	if err != nil {
		handleJSONError(w, err, "logging out")
		return
	}

	if ok {
		unsetSessionCookie(w)
	}

	w.WriteHeader(http.StatusNoContent)
}
