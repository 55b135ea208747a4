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

package review

import (
	"testing"

	"github.com/cardbox/cardbox/pkg/assert"
	"github.com/pkg/errors"
)

func newTestSession(t *testing.T) *Session {
	s, err := NewSession([]Card{
		{Front: "front 1", Back: "back 1"},
		{Front: "front 2", Back: "back 2"},
		{Front: "front 3", Back: "back 3"},
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating session"))
	}

	return s
}

func TestNewSession(t *testing.T) {
	t.Run("empty cards", func(t *testing.T) {
		_, err := NewSession([]Card{})
		assert.Equal(t, err, ErrNoCards, "error mismatch")
	})

	t.Run("starts at the first card", func(t *testing.T) {
		s := newTestSession(t)

		card, ok := s.Current()
		assert.Equal(t, ok, true, "ok mismatch")
		assert.Equal(t, card.Front, "front 1", "Front mismatch")
		assert.Equal(t, s.Flipped(), false, "Flipped mismatch")

		pos, total := s.Position()
		assert.Equal(t, pos, 1, "position mismatch")
		assert.Equal(t, total, 3, "total mismatch")
	})
}

func TestFlip(t *testing.T) {
	s := newTestSession(t)

	s.Flip()
	assert.Equal(t, s.Flipped(), true, "Flipped mismatch after flip")

	s.Flip()
	assert.Equal(t, s.Flipped(), false, "Flipped mismatch after second flip")
}

func TestNext(t *testing.T) {
	t.Run("advances and resets flip", func(t *testing.T) {
		s := newTestSession(t)

		s.Flip()
		s.Next()

		card, ok := s.Current()
		assert.Equal(t, ok, true, "ok mismatch")
		assert.Equal(t, card.Front, "front 2", "Front mismatch")
		assert.Equal(t, s.Flipped(), false, "Flipped should reset on advance")
	})

	t.Run("completes past the last card", func(t *testing.T) {
		s := newTestSession(t)

		s.Next()
		s.Next()
		assert.Equal(t, s.Completed(), false, "should not be completed on the last card")

		s.Next()
		assert.Equal(t, s.Completed(), true, "should be completed past the last card")

		_, ok := s.Current()
		assert.Equal(t, ok, false, "Current should report no card once completed")

		// advancing a completed session is a no-op
		s.Next()
		assert.Equal(t, s.Completed(), true, "Completed mismatch")
	})
}

func TestPrev(t *testing.T) {
	t.Run("no-op on the first card", func(t *testing.T) {
		s := newTestSession(t)

		s.Prev()

		card, _ := s.Current()
		assert.Equal(t, card.Front, "front 1", "Front mismatch")
	})

	t.Run("moves back and resets flip", func(t *testing.T) {
		s := newTestSession(t)

		s.Next()
		s.Flip()
		s.Prev()

		card, _ := s.Current()
		assert.Equal(t, card.Front, "front 1", "Front mismatch")
		assert.Equal(t, s.Flipped(), false, "Flipped should reset on move")
	})
}

func TestRestart(t *testing.T) {
	s := newTestSession(t)

	s.Next()
	s.Next()
	s.Next()
	assert.Equal(t, s.Completed(), true, "Completed mismatch")

	s.Restart()
	assert.Equal(t, s.Completed(), false, "Completed mismatch after restart")

	card, ok := s.Current()
	assert.Equal(t, ok, true, "ok mismatch")
	assert.Equal(t, card.Front, "front 1", "Front mismatch")
	assert.Equal(t, s.Flipped(), false, "Flipped mismatch")
}
