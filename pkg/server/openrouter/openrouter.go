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

// Package openrouter implements a client for the OpenRouter chat
// completion API used to generate flashcard proposals from source text.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cardbox/cardbox/pkg/server/log"
	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultTimeout = 30 * time.Second

	// maxSideLength is the hard cap on the length of a proposal side
	maxSideLength = 5000
)

var (
	// ErrTimeout is an error for a generation call exceeding the deadline
	ErrTimeout = errors.New("request timeout: AI service took too long to respond")
	// ErrInvalidResponse is an error for a chat completion response with no usable choice
	ErrInvalidResponse = errors.New("invalid chat completion response structure")
	// ErrInvalidJSON is an error for message content that does not parse as JSON
	ErrInvalidJSON = errors.New("failed to parse message content as JSON")
	// ErrInvalidFlashcards is an error for parsed content without a flashcards array
	ErrInvalidFlashcards = errors.New("invalid flashcards structure in response")
	// ErrMissingFields is an error for a proposal missing front or back
	ErrMissingFields = errors.New("flashcard missing front or back")
)

// Config is the configuration for the OpenRouter client
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	SiteURL    string
	AppName    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is an OpenRouter API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient returns a new OpenRouter client with defaults filled in
func NewClient(c Config) *Client {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{config: c, httpClient: httpClient}
}

// Model returns the model identifier the client is configured with
func (c *Client) Model() string {
	return c.config.Model
}

// Proposal is a single AI-suggested flashcard that has not been persisted
type Proposal struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

func systemPrompt(count int) string {
	return fmt.Sprintf(`You are a flashcard generation assistant. Your task is to create high-quality flashcards from the provided text.

Rules:
1. Generate exactly %d flashcards
2. Each flashcard should have:
   - Front: A concept, term, or question (max 200 characters)
   - Back: A definition, explanation, or answer (max 500 characters)
3. Focus on the most important concepts
4. Make flashcards clear and concise
5. Ensure each flashcard tests a single concept
6. Always generate flashcards in language of the source text
7. Return ONLY valid JSON in this format:
{
  "flashcards": [
    {"front": "concept", "back": "definition"},
    ...
  ]
}`, count)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message *struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateFlashcards asks the model to produce the given number of
// flashcard proposals from sourceText. The call is bounded by the
// configured timeout; on expiry it returns ErrTimeout.
func (c *Client) GenerateFlashcards(ctx context.Context, sourceText string, count int) ([]Proposal, error) {
	payload := chatCompletionRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(count)},
			{Role: "user", Content: sourceText},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling request payload")
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
	req.Header.Set("Content-Type", "application/json")
	if c.config.SiteURL != "" {
		req.Header.Set("HTTP-Referer", c.config.SiteURL)
	}
	if c.config.AppName != "" {
		req.Header.Set("X-Title", c.config.AppName)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}

		return nil, errors.Wrap(err, "calling chat completion endpoint")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		errText, readErr := io.ReadAll(res.Body)
		if readErr != nil {
			errText = []byte("unknown error")
		}

		return nil, errors.Errorf("chat completion endpoint returned %d: %s", res.StatusCode, string(errText))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(res.Body).Decode(&completion); err != nil {
		return nil, ErrInvalidResponse
	}

	return parseCompletion(completion, count)
}

// parseCompletion validates the completion and extracts proposals. A single
// bad entry fails the whole batch; a count mismatch does not.
func parseCompletion(completion chatCompletionResponse, expectedCount int) ([]Proposal, error) {
	if len(completion.Choices) == 0 || completion.Choices[0].Message == nil {
		return nil, ErrInvalidResponse
	}

	content := completion.Choices[0].Message.Content

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, ErrInvalidJSON
	}

	rawCards, ok := parsed["flashcards"]
	if !ok {
		return nil, ErrInvalidFlashcards
	}

	// cards stays nil when the key holds JSON null, which is as invalid
	// as a missing key
	var cards []map[string]interface{}
	if err := json.Unmarshal(rawCards, &cards); err != nil || cards == nil {
		return nil, ErrInvalidFlashcards
	}

	proposals := []Proposal{}
	for _, card := range cards {
		front := coerceString(card["front"])
		back := coerceString(card["back"])

		if front == "" || back == "" {
			return nil, ErrMissingFields
		}

		proposals = append(proposals, Proposal{
			Front: truncate(strings.TrimSpace(front), maxSideLength),
			Back:  truncate(strings.TrimSpace(back), maxSideLength),
		})
	}

	if len(proposals) != expectedCount {
		log.WithFields(log.Fields{
			"expected": expectedCount,
			"got":      len(proposals),
		}).Warn("proposal count mismatch")
	}

	return proposals, nil
}

func coerceString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max])
}
