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

// Package review implements the state of a study session over a set of
// flashcards.
package review

import "github.com/pkg/errors"

// ErrNoCards is an error for starting a session without any cards
var ErrNoCards = errors.New("no cards to study")

// Card is a single flashcard under review
type Card struct {
	Front string
	Back  string
}

// Session tracks the position within a set of cards being studied. Moving
// past the last card completes the session.
type Session struct {
	cards     []Card
	idx       int
	flipped   bool
	completed bool
}

// NewSession returns a new session over the given cards
func NewSession(cards []Card) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	return &Session{cards: cards}, nil
}

// Current returns the card under review. It returns false if the session
// is completed.
func (s *Session) Current() (Card, bool) {
	if s.completed {
		return Card{}, false
	}

	return s.cards[s.idx], true
}

// Position returns the one-based position of the current card and the
// total number of cards.
func (s *Session) Position() (int, int) {
	return s.idx + 1, len(s.cards)
}

// Flipped returns true if the current card is showing its back
func (s *Session) Flipped() bool {
	return s.flipped
}

// Flip toggles the current card between its front and its back
func (s *Session) Flip() {
	if s.completed {
		return
	}

	s.flipped = !s.flipped
}

// Next advances to the next card. Advancing past the last card completes
// the session.
func (s *Session) Next() {
	if s.completed {
		return
	}

	if s.idx == len(s.cards)-1 {
		s.completed = true
		return
	}

	s.idx++
	s.flipped = false
}

// Prev moves back to the previous card. It is a no-op on the first card.
func (s *Session) Prev() {
	if s.completed || s.idx == 0 {
		return
	}

	s.idx--
	s.flipped = false
}

// Completed returns true once the session has advanced past the last card
func (s *Session) Completed() bool {
	return s.completed
}

// Restart rewinds the session to the first card
func (s *Session) Restart() {
	s.idx = 0
	s.flipped = false
	s.completed = false
}
