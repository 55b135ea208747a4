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

package permissions

import (
	"github.com/cardbox/cardbox/pkg/server/database"
)

// ViewFlashcard checks if the given user can view the given flashcard
func ViewFlashcard(user *database.User, flashcard database.Flashcard) bool {
	if user == nil {
		return false
	}
	if flashcard.UserID == 0 {
		return false
	}

	return flashcard.UserID == user.ID
}

// ViewGeneration checks if the given user can view the given generation
func ViewGeneration(user *database.User, generation database.Generation) bool {
	if user == nil {
		return false
	}
	if generation.UserID == 0 {
		return false
	}

	return generation.UserID == user.ID
}
