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

package config

import (
	"testing"

	"github.com/cardbox/cardbox/pkg/assert"
	"github.com/pkg/errors"
)

func TestNewDefaults(t *testing.T) {
	c, err := New(Params{
		WebURL: "http://localhost:3001",
		DBPath: "/tmp/cardbox-test.db",
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating config"))
	}

	assert.Equal(t, c.Port, "3001", "Port mismatch")
	assert.Equal(t, c.OpenRouterModel, "openai/gpt-4o-mini", "OpenRouterModel mismatch")
	assert.Equal(t, c.ProposalCount, 12, "ProposalCount mismatch")
}

func TestProposalCountEnv(t *testing.T) {
	t.Run("valid value", func(t *testing.T) {
		t.Setenv("PROPOSAL_COUNT", "20")

		c, err := New(Params{
			WebURL: "http://localhost:3001",
			DBPath: "/tmp/cardbox-test.db",
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		assert.Equal(t, c.ProposalCount, 20, "ProposalCount mismatch")
	})

	t.Run("invalid value falls back to default", func(t *testing.T) {
		t.Setenv("PROPOSAL_COUNT", "many")

		c, err := New(Params{
			WebURL: "http://localhost:3001",
			DBPath: "/tmp/cardbox-test.db",
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		assert.Equal(t, c.ProposalCount, 12, "ProposalCount mismatch")
	})

	t.Run("non-positive value falls back to default", func(t *testing.T) {
		t.Setenv("PROPOSAL_COUNT", "0")

		c, err := New(Params{
			WebURL: "http://localhost:3001",
			DBPath: "/tmp/cardbox-test.db",
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		assert.Equal(t, c.ProposalCount, 12, "ProposalCount mismatch")
	})
}
