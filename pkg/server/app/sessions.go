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
	"errors"
	"time"

	"github.com/cardbox/cardbox/pkg/server/crypt"
	"github.com/cardbox/cardbox/pkg/server/database"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// sessionLifespan is how long a newly created session stays valid
const sessionLifespan = 24 * 100 * time.Hour

// CreateSession returns a new session for the user of the given id
func (a *App) CreateSession(userID int) (database.Session, error) {
	key, err := crypt.GetRandomStr(32)
	if err != nil {
		return database.Session{}, pkgErrors.Wrap(err, "generating key")
	}

	now := a.Clock.Now()
	session := database.Session{
		UserID:     userID,
		Key:        key,
		LastUsedAt: now,
		ExpiresAt:  now.Add(sessionLifespan),
	}

	if err := a.DB.Save(&session).Error; err != nil {
		return database.Session{}, pkgErrors.Wrap(err, "saving session")
	}

	return session, nil
}

// GetSessionByKey retrieves an unexpired session with the given key.
// It returns nil without an error if no such session exists.
func (a *App) GetSessionByKey(key string) (*database.Session, error) {
	var session database.Session
	err := a.DB.Where("key = ?", key).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding session")
	}

	if session.ExpiresAt.Before(a.Clock.Now()) {
		return nil, nil
	}

	return &session, nil
}

// DeleteUserSessions deletes all existing sessions for the given user. It effectively
// invalidates all existing sessions.
func (a *App) DeleteUserSessions(db *gorm.DB, userID int) error {
	if err := db.Where("user_id = ?", userID).Delete(&database.Session{}).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting sessions")
	}

	return nil
}

// DeleteSession deletes the session that match the given info
func (a *App) DeleteSession(sessionKey string) error {
	if err := a.DB.Where("key = ?", sessionKey).Delete(&database.Session{}).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting the session")
	}

	return nil
}

// DeleteExpiredSessions removes sessions that are past their expiry
func (a *App) DeleteExpiredSessions() (int64, error) {
	conn := a.DB.Where("expires_at < ?", a.Clock.Now()).Delete(&database.Session{})
	if conn.Error != nil {
		return 0, pkgErrors.Wrap(conn.Error, "deleting expired sessions")
	}

	return conn.RowsAffected, nil
}
