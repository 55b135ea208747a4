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

	"github.com/cardbox/cardbox/pkg/server/database"
	"github.com/cardbox/cardbox/pkg/server/helpers"
	"github.com/cardbox/cardbox/pkg/server/log"
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return pkgErrors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// CreateUser creates a user
func (a *App) CreateUser(email, password string, passwordConfirmation string) (database.User, error) {
	if email == "" {
		return database.User{}, ErrEmailRequired
	}

	if len(password) < 8 {
		return database.User{}, ErrPasswordTooShort
	}

	if password != passwordConfirmation {
		return database.User{}, ErrPasswordConfirmationMismatch
	}

	tx := a.DB.Begin()

	var count int64
	if err := tx.Model(database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "counting user")
	}
	if count > 0 {
		tx.Rollback()
		return database.User{}, ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "hashing password")
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		tx.Rollback()
		return database.User{}, err
	}

	user := database.User{
		UUID:     uuid,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err = tx.Save(&user).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "saving user")
	}

	if err := a.TouchLastLoginAt(user, tx); err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "updating last login")
	}

	tx.Commit()

	return user, nil
}

// GetUserByEmail returns a user with the given email. It returns ErrNotFound
// if no such user exists.
func (a *App) GetUserByEmail(email string) (database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.User{}, ErrNotFound
	} else if err != nil {
		return database.User{}, pkgErrors.Wrap(err, "finding user")
	}

	return user, nil
}

// RemoveUser removes the user with the given email along with their sessions.
// A user that still owns flashcards or generations cannot be removed.
func (a *App) RemoveUser(email string) error {
	user, err := a.GetUserByEmail(email)
	if err != nil {
		return err
	}

	var flashcardCount, generationCount int64
	if err := a.DB.Model(database.Flashcard{}).Where("user_id = ?", user.ID).Count(&flashcardCount).Error; err != nil {
		return pkgErrors.Wrap(err, "counting flashcards")
	}
	if err := a.DB.Model(database.Generation{}).Where("user_id = ?", user.ID).Count(&generationCount).Error; err != nil {
		return pkgErrors.Wrap(err, "counting generations")
	}
	if flashcardCount > 0 || generationCount > 0 {
		return ErrUserHasExistingResources
	}

	tx := a.DB.Begin()
	if err := a.DeleteUserSessions(tx, user.ID); err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting sessions")
	}
	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting user")
	}
	tx.Commit()

	return nil
}

// UpdateUserPassword hashes the given password and saves it for the user
func UpdateUserPassword(db *gorm.DB, user database.User, password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return pkgErrors.Wrap(err, "hashing password")
	}

	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		return pkgErrors.Wrap(err, "updating password")
	}

	return nil
}

// Authenticate authenticates a user
func (a *App) Authenticate(email, password string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLoginInvalid
	} else if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, ErrLoginInvalid
	}

	return &user, nil
}

// SignIn signs in a user
func (a *App) SignIn(user *database.User) (*database.Session, error) {
	err := a.TouchLastLoginAt(*user, a.DB)
	if err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	session, err := a.CreateSession(user.ID)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "creating session")
	}

	return &session, nil
}
