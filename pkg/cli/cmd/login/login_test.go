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

package login

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardbox/cardbox/pkg/assert"
	"github.com/cardbox/cardbox/pkg/cli/config"
	"github.com/cardbox/cardbox/pkg/cli/context"
	"github.com/pkg/errors"
)

func TestGetServerDisplayURL(t *testing.T) {
	testCases := []struct {
		apiEndpoint string
		expected    string
	}{
		{
			apiEndpoint: "https://cardbox.mydomain.com/api",
			expected:    "https://cardbox.mydomain.com",
		},
		{
			apiEndpoint: "https://mysubdomain.mydomain.com/cardbox/api",
			expected:    "https://mysubdomain.mydomain.com",
		},
		{
			apiEndpoint: "some-string",
			expected:    "",
		},
		{
			apiEndpoint: "",
			expected:    "",
		},
		{
			apiEndpoint: "https://",
			expected:    "",
		},
		{
			apiEndpoint: "https://abc",
			expected:    "https://abc",
		},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("for input %s", tc.apiEndpoint), func(t *testing.T) {
			got := getServerDisplayURL(context.CardboxCtx{APIEndpoint: tc.apiEndpoint})
			assert.Equal(t, got, tc.expected, "result mismatch")
		})
	}
}

func TestDo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/signin", "path mismatch")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"key":        "someSessionKey",
			"expires_at": "2025-06-01T00:00:00Z",
		}); err != nil {
			t.Fatal(errors.Wrap(err, "encoding response"))
		}
	}))
	defer server.Close()

	ctx := context.InitTestCtx(t)
	ctx.APIEndpoint = server.URL

	if err := config.Write(ctx, config.Config{APIEndpoint: server.URL}); err != nil {
		t.Fatal(errors.Wrap(err, "writing config"))
	}

	if err := Do(ctx, "alice@example.com", "pass1234"); err != nil {
		t.Fatal(errors.Wrap(err, "logging in"))
	}

	cf, err := config.Read(ctx)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading config"))
	}

	assert.Equal(t, cf.SessionKey, "someSessionKey", "SessionKey mismatch")
	assert.Equal(t, cf.SessionKeyExpiry > 0, true, "SessionKeyExpiry should be set")
}
