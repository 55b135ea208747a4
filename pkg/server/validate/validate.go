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

// Package validate checks request payloads and produces per-field error
// details for validation failure responses.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxSideLength is the maximum length of a flashcard side
	MaxSideLength = 5000
	// MinSourceTextLength is the minimum length of AI generation source text
	MinSourceTextLength = 100
	// MaxSourceTextLength is the maximum length of AI generation source text
	MaxSourceTextLength = 1000
	// MaxBatchSize is the maximum number of flashcards in a batch request
	MaxBatchSize = 50
	// MaxSearchLength is the maximum length of a listing search term
	MaxSearchLength = 500
	// MaxPageSize is the maximum listing page size
	MaxPageSize = 100
	// DefaultPageSize is the listing page size used when none is given
	DefaultPageSize = 30
)

// FieldErrors holds validation messages keyed by field name
type FieldErrors map[string][]string

// Error implements the error interface
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}

	return fmt.Sprintf("validation failed for %s", strings.Join(fields, ", "))
}

// Add appends a message for the given field
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// capitalize uppercases the first letter of the given field name
func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

func checkSide(errs FieldErrors, field, value string) {
	if value == "" {
		errs.Add(field, fmt.Sprintf("%s field cannot be empty", capitalize(field)))
		return
	}
	if utf8.RuneCountInString(value) > MaxSideLength {
		errs.Add(field, fmt.Sprintf("%s field cannot exceed %d characters", capitalize(field), MaxSideLength))
	}
}

// FlashcardContent trims and validates the front and back of a flashcard.
// It returns the trimmed values.
func FlashcardContent(front, back string) (string, string, error) {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)

	errs := FieldErrors{}
	checkSide(errs, "front", front)
	checkSide(errs, "back", back)

	if len(errs) > 0 {
		return "", "", errs
	}

	return front, back, nil
}

// SourceText trims and validates AI generation source text. It returns the
// trimmed value.
func SourceText(text string) (string, error) {
	text = strings.TrimSpace(text)

	errs := FieldErrors{}
	length := utf8.RuneCountInString(text)
	if length < MinSourceTextLength {
		errs.Add("source_text", fmt.Sprintf("Source text must be at least %d characters long", MinSourceTextLength))
	} else if length > MaxSourceTextLength {
		errs.Add("source_text", fmt.Sprintf("Source text must not exceed %d characters", MaxSourceTextLength))
	}

	if len(errs) > 0 {
		return "", errs
	}

	return text, nil
}

// BatchItem is a single flashcard in a batch create request
type BatchItem struct {
	Front  string `json:"front"`
	Back   string `json:"back"`
	Edited bool   `json:"edited"`
}

// Batch validates a batch create payload and returns the items with
// trimmed sides.
func Batch(items []BatchItem, generationID int) ([]BatchItem, error) {
	errs := FieldErrors{}

	if generationID <= 0 {
		errs.Add("generation_id", "Generation id must be a positive integer")
	}
	if len(items) == 0 {
		errs.Add("flashcards", "At least one flashcard is required")
	} else if len(items) > MaxBatchSize {
		errs.Add("flashcards", fmt.Sprintf("Cannot create more than %d flashcards at once", MaxBatchSize))
	}

	ret := make([]BatchItem, 0, len(items))
	for i, item := range items {
		front := strings.TrimSpace(item.Front)
		back := strings.TrimSpace(item.Back)

		itemErrs := FieldErrors{}
		checkSide(itemErrs, "front", front)
		checkSide(itemErrs, "back", back)

		for field, messages := range itemErrs {
			for _, message := range messages {
				errs.Add(fmt.Sprintf("flashcards.%d.%s", i, field), message)
			}
		}

		ret = append(ret, BatchItem{Front: front, Back: back, Edited: item.Edited})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return ret, nil
}

// ListQuery is the set of listing parameters after validation
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	Source string
	Sort   string
	Order  string
}

// ListParams validates listing query parameters and fills in defaults.
// Zero values mean the parameter was not provided.
func ListParams(q ListQuery) (ListQuery, error) {
	errs := FieldErrors{}

	if q.Page == 0 {
		q.Page = 1
	} else if q.Page < 1 {
		errs.Add("page", "Page must be at least 1")
	}

	if q.Limit == 0 {
		q.Limit = DefaultPageSize
	} else if q.Limit < 1 || q.Limit > MaxPageSize {
		errs.Add("limit", fmt.Sprintf("Limit must be between 1 and %d", MaxPageSize))
	}

	if utf8.RuneCountInString(q.Search) > MaxSearchLength {
		errs.Add("search", fmt.Sprintf("Search term cannot exceed %d characters", MaxSearchLength))
	}

	switch q.Source {
	case "", "manual", "ai":
	default:
		errs.Add("source", "Source must be either 'manual' or 'ai'")
	}

	switch q.Sort {
	case "":
		q.Sort = "created_at"
	case "created_at", "updated_at":
	default:
		errs.Add("sort", "Sort must be either 'created_at' or 'updated_at'")
	}

	switch q.Order {
	case "":
		q.Order = "desc"
	case "asc", "desc":
	default:
		errs.Add("order", "Order must be either 'asc' or 'desc'")
	}

	if len(errs) > 0 {
		return ListQuery{}, errs
	}

	return q, nil
}
