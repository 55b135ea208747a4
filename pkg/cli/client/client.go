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

// Package client provides interfaces for interacting with the Cardbox server
// and the data structures for responses
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cardbox/cardbox/pkg/cli/context"
	"github.com/cardbox/cardbox/pkg/cli/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// ErrInvalidLogin is an error for invalid credentials for login
var ErrInvalidLogin = errors.New("wrong credentials")

// ErrContentTypeMismatch is an error for an unexpected Content-Type in a response
var ErrContentTypeMismatch = errors.New("content type mismatch")

// HTTPError represents an HTTP error response from the server
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

var contentTypeApplicationJSON = "application/json"
var contentTypeNone = ""

// requestOptions contains options for requests
type requestOptions struct {
	HTTPClient *http.Client
	// ExpectedContentType is the Content-Type that the client is expecting from the server
	ExpectedContentType *string
}

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 50
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 100
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Wait for rate limiter to allow the request
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	// Calculate interval from rate: 1 second / requests per second
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
	return &http.Client{
		Transport: transport,
	}
}

func getHTTPClient(ctx context.CardboxCtx, options *requestOptions) *http.Client {
	if options != nil && options.HTTPClient != nil {
		return options.HTTPClient
	}

	if ctx.HTTPClient != nil {
		return ctx.HTTPClient
	}

	return &http.Client{}
}

func getExpectedContentType(options *requestOptions) string {
	if options != nil && options.ExpectedContentType != nil {
		return *options.ExpectedContentType
	}

	return contentTypeApplicationJSON
}

func getReq(ctx context.CardboxCtx, path, method, body string) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s%s", ctx.APIEndpoint, path)
	req, err := http.NewRequest(method, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("CLI-Version", ctx.Version)
	if body != "" {
		req.Header.Set("Content-Type", contentTypeApplicationJSON)
	}

	if ctx.SessionKey != "" {
		credential := fmt.Sprintf("Bearer %s", ctx.SessionKey)
		req.Header.Set("Authorization", credential)
	}

	return req, nil
}

// checkRespErr checks if the given http response indicates an error. It returns
// a decoded error message, if any.
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "server responded with %d but client could not read the response body", res.StatusCode)
	}

	bodyStr := string(body)
	return &HTTPError{
		StatusCode: res.StatusCode,
		Message:    strings.TrimRight(bodyStr, "\n"),
	}
}

func checkContentType(res *http.Response, options *requestOptions) error {
	expected := getExpectedContentType(options)
	if expected == contentTypeNone {
		return nil
	}

	got := res.Header.Get("Content-Type")
	if got != expected {
		return errors.Wrapf(ErrContentTypeMismatch, "got: '%s' want: '%s'. Did you configure your endpoint correctly?", got, expected)
	}

	return nil
}

// doReq does a http request to the given path in the api endpoint
func doReq(ctx context.CardboxCtx, method, path, body string, options *requestOptions) (*http.Response, error) {
	req, err := getReq(ctx, path, method, body)
	if err != nil {
		return nil, errors.Wrap(err, "getting request")
	}

	log.Debug("HTTP %s %s\n", method, path)

	hc := getHTTPClient(ctx, options)
	res, err := hc.Do(req)
	if err != nil {
		return res, errors.Wrap(err, "making http request")
	}

	log.Debug("HTTP %d %s\n", res.StatusCode, res.Status)

	if err = checkRespErr(res); err != nil {
		return res, err
	}

	if err = checkContentType(res, options); err != nil {
		return res, errors.Wrap(err, "unexpected Content-Type")
	}

	return res, nil
}

// doAuthorizedReq does a http request to the given path in the api endpoint as a user,
// with the appropriate headers. The given path should include the preceding slash.
func doAuthorizedReq(ctx context.CardboxCtx, method, path, body string, options *requestOptions) (*http.Response, error) {
	if ctx.SessionKey == "" {
		return nil, errors.New("no session key found")
	}

	return doReq(ctx, method, path, body, options)
}

// SigninPayload is a payload for /signin
type SigninPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninResponse is a response from the /signin endpoint
type SigninResponse struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Signin requests a session key
func Signin(ctx context.CardboxCtx, email, password string) (SigninResponse, error) {
	payload := SigninPayload{
		Email:    email,
		Password: password,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return SigninResponse{}, errors.Wrap(err, "marshaling payload")
	}

	res, err := doReq(ctx, "POST", "/signin", string(b), nil)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
			return SigninResponse{}, ErrInvalidLogin
		}
		return SigninResponse{}, errors.Wrap(err, "making http request")
	}

	var resp SigninResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return SigninResponse{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// Signout deletes the session on the server side
func Signout(ctx context.CardboxCtx) error {
	opts := requestOptions{
		ExpectedContentType: &contentTypeNone,
	}
	_, err := doAuthorizedReq(ctx, "POST", "/signout", "", &opts)
	if err != nil {
		return errors.Wrap(err, "making http request")
	}

	return nil
}

// Flashcard is a flashcard in the response
type Flashcard struct {
	ID           int       `json:"id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Source       string    `json:"source"`
	GenerationID *int      `json:"generation_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Pagination describes the position of a page within a listing
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ListOptions are the filters for listing flashcards
type ListOptions struct {
	Page   int
	Limit  int
	Search string
	Source string
	Sort   string
	Order  string
}

func (o ListOptions) encode() string {
	v := url.Values{}
	if o.Page != 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit != 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Search != "" {
		v.Set("search", o.Search)
	}
	if o.Source != "" {
		v.Set("source", o.Source)
	}
	if o.Sort != "" {
		v.Set("sort", o.Sort)
	}
	if o.Order != "" {
		v.Set("order", o.Order)
	}

	return v.Encode()
}

// GetFlashcardsResp is the response from the list flashcards endpoint
type GetFlashcardsResp struct {
	Data       []Flashcard `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// GetFlashcards lists a page of the user's flashcards
func GetFlashcards(ctx context.CardboxCtx, options ListOptions) (GetFlashcardsResp, error) {
	path := "/flashcards"
	if queryStr := options.encode(); queryStr != "" {
		path = fmt.Sprintf("%s?%s", path, queryStr)
	}

	res, err := doAuthorizedReq(ctx, "GET", path, "", nil)
	if err != nil {
		return GetFlashcardsResp{}, errors.Wrap(err, "making the request")
	}

	var resp GetFlashcardsResp
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return GetFlashcardsResp{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

const (
	// fetchAllPageSize is the page size used when fetching all flashcards
	fetchAllPageSize = 100
	// maxStudyPages caps how many pages FetchAllFlashcards will request.
	// The bound is client-side so that a misbehaving server cannot drive
	// an endless sequence of requests.
	maxStudyPages = 50
)

// FetchAllFlashcards fetches every flashcard of the user by following
// the pagination of the listing endpoint, up to maxStudyPages pages.
func FetchAllFlashcards(ctx context.CardboxCtx) ([]Flashcard, error) {
	ret := []Flashcard{}

	page := 1
	for {
		resp, err := GetFlashcards(ctx, ListOptions{Page: page, Limit: fetchAllPageSize})
		if err != nil {
			return nil, errors.Wrapf(err, "fetching page %d", page)
		}

		ret = append(ret, resp.Data...)

		if !resp.Pagination.HasNext {
			break
		}
		if page >= resp.Pagination.TotalPages {
			break
		}
		if page >= maxStudyPages {
			log.Debug("stopping at the page limit of %d\n", maxStudyPages)
			break
		}

		page++
	}

	return ret, nil
}

// CreateFlashcardPayload is a payload for creating a flashcard
type CreateFlashcardPayload struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// CreateFlashcardResp is the response from the create flashcard endpoint
type CreateFlashcardResp struct {
	Data Flashcard `json:"data"`
}

// CreateFlashcard creates a new flashcard in the server
func CreateFlashcard(ctx context.CardboxCtx, front, back string) (CreateFlashcardResp, error) {
	payload := CreateFlashcardPayload{
		Front: front,
		Back:  back,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return CreateFlashcardResp{}, errors.Wrap(err, "marshaling payload")
	}

	res, err := doAuthorizedReq(ctx, "POST", "/flashcards", string(b), nil)
	if err != nil {
		return CreateFlashcardResp{}, errors.Wrap(err, "posting a flashcard to the server")
	}

	var resp CreateFlashcardResp
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return CreateFlashcardResp{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// Proposal is a single AI-suggested flashcard
type Proposal struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// GenerationResult is the payload for a completed generation request
type GenerationResult struct {
	GenerationID       int        `json:"generation_id"`
	Model              string     `json:"model"`
	GeneratedCount     int        `json:"generated_count"`
	GenerationDuration int64      `json:"generation_duration"`
	Proposals          []Proposal `json:"proposals"`
}

type generatePayload struct {
	SourceText string `json:"source_text"`
}

type generateResp struct {
	Data GenerationResult `json:"data"`
}

// GenerateFlashcards asks the server to generate flashcard proposals from
// the given source text
func GenerateFlashcards(ctx context.CardboxCtx, sourceText string) (GenerationResult, error) {
	payload := generatePayload{
		SourceText: sourceText,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return GenerationResult{}, errors.Wrap(err, "marshaling payload")
	}

	res, err := doAuthorizedReq(ctx, "POST", "/generations", string(b), nil)
	if err != nil {
		return GenerationResult{}, errors.Wrap(err, "posting a generation to the server")
	}

	var resp generateResp
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return GenerationResult{}, errors.Wrap(err, "decoding payload")
	}

	return resp.Data, nil
}

// BatchItem is a single flashcard to save from a generation
type BatchItem struct {
	Front  string `json:"front"`
	Back   string `json:"back"`
	Edited bool   `json:"edited"`
}

type batchPayload struct {
	GenerationID int         `json:"generation_id"`
	Flashcards   []BatchItem `json:"flashcards"`
}

// BatchResult is the response from the batch create endpoint
type BatchResult struct {
	CreatedCount int         `json:"created_count"`
	Flashcards   []Flashcard `json:"flashcards"`
}

type batchResp struct {
	Data BatchResult `json:"data"`
}

// CreateFlashcardBatch saves accepted flashcard proposals from a generation
func CreateFlashcardBatch(ctx context.CardboxCtx, generationID int, items []BatchItem) (BatchResult, error) {
	payload := batchPayload{
		GenerationID: generationID,
		Flashcards:   items,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return BatchResult{}, errors.Wrap(err, "marshaling payload")
	}

	res, err := doAuthorizedReq(ctx, "POST", "/flashcards/batch", string(b), nil)
	if err != nil {
		return BatchResult{}, errors.Wrap(err, "posting a flashcard batch to the server")
	}

	var resp batchResp
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return BatchResult{}, errors.Wrap(err, "decoding payload")
	}

	return resp.Data, nil
}
