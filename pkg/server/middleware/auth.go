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
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cardbox/cardbox/pkg/server/context"
	"github.com/cardbox/cardbox/pkg/server/database"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// SessionCookieName is the name of the cookie carrying the session key
const SessionCookieName = "cardbox_session"

// ErrInvalidAuthHeader is an error for a malformed authorization header
var ErrInvalidAuthHeader = errors.New("invalid authorization header")

func getSessionKeyFromCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(SessionCookieName)

	if err == http.ErrNoCookie {
		return "", nil
	} else if err != nil {
		return "", pkgErrors.Wrap(err, "reading cookie")
	}

	return c.Value, nil
}

func getSessionKeyFromAuth(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}

	payload := strings.SplitN(h, " ", 2)
	if len(payload) != 2 || payload[0] != "Bearer" {
		return "", ErrInvalidAuthHeader
	}

	return payload[1], nil
}

// GetCredential extracts the session key from the authorization header,
// falling back to the session cookie
func GetCredential(r *http.Request) (string, error) {
	ret, err := getSessionKeyFromAuth(r)
	if err != nil {
		return "", pkgErrors.Wrap(err, "getting session key from the authorization header")
	}
	if ret == "" {
		ret, err = getSessionKeyFromCookie(r)
		if err != nil {
			return "", pkgErrors.Wrap(err, "getting session key from the cookie")
		}
	}

	return ret, nil
}

// AuthWithSession performs user authentication with session
func AuthWithSession(db *gorm.DB, r *http.Request) (database.User, bool, error) {
	var user database.User

	sessionKey, err := GetCredential(r)
	if err != nil {
		return user, false, pkgErrors.Wrap(err, "getting credential")
	}
	if sessionKey == "" {
		return user, false, nil
	}

	var session database.Session
	err = db.Where("key = ?", sessionKey).First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, false, nil
	} else if err != nil {
		return user, false, pkgErrors.Wrap(err, "finding session")
	}

	if session.ExpiresAt.Before(time.Now()) {
		return user, false, nil
	}

	err = db.Where("id = ?", session.UserID).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, false, nil
	} else if err != nil {
		return user, false, pkgErrors.Wrap(err, "finding user from session")
	}

	return user, true, nil
}

// Auth is an authentication middleware
func Auth(db *gorm.DB, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok, err := AuthWithSession(db, r)
		if err != nil {
			DoError(w, "authenticating with session", err, http.StatusInternalServerError)
			return
		}
		if !ok {
			RespondUnauthorized(w)
			return
		}

		ctx := context.WithUser(r.Context(), &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
