// Package helpers provides common test utilities for HTTP-level tests.
//
// This package includes a token helper, a request builder that speaks both
// JSON and multipart, and assertion helpers for problem responses and stored
// records.
package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/placeshare/api/internal/database"
	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/pkg/jwt"
)

// TestJWTKey is the signing key shared by NewTestJWTService and JWTHelper
const TestJWTKey = "placeshare-test-signing-key-0123456789"

// ============================================================================
// JWT Helpers
// ============================================================================

// NewTestJWTService returns a token service signed with TestJWTKey
func NewTestJWTService() *jwt.Service {
	return jwt.NewService(jwt.Config{Key: TestJWTKey, Issuer: "placeshare-test"})
}

// JWTHelper provides JWT token generation for tests
type JWTHelper struct {
	t       *testing.T
	service *jwt.Service
}

// NewJWTHelper creates a JWT helper that signs with TestJWTKey
func NewJWTHelper(t *testing.T) *JWTHelper {
	t.Helper()
	return &JWTHelper{t: t, service: NewTestJWTService()}
}

// GenerateToken creates a valid token for user
func (h *JWTHelper) GenerateToken(userID, email string) string {
	h.t.Helper()
	token, err := h.service.Issue(userID, email)
	if err != nil {
		h.t.Fatalf("helpers: failed to sign token: %v", err)
	}
	return token
}

// GenerateExpiredToken creates a correctly signed token that expired a minute ago
func (h *JWTHelper) GenerateExpiredToken(userID, email string) string {
	h.t.Helper()
	past := time.Now().Add(-time.Hour)
	token, err := h.service.Sign(jwt.Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  gojwt.NewNumericDate(past),
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	if err != nil {
		h.t.Fatalf("helpers: failed to sign token: %v", err)
	}
	return token
}

// ============================================================================
// Request Builder
// ============================================================================

// RequestBuilder helps construct HTTP requests for testing
type RequestBuilder struct {
	t       *testing.T
	method  string
	path    string
	body    interface{}
	raw     []byte
	fields  map[string]string
	file    []byte
	form    bool
	headers map[string]string
}

// NewRequest creates a new request builder
func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	t.Helper()
	return &RequestBuilder{
		t:       t,
		method:  method,
		path:    path,
		headers: make(map[string]string),
	}
}

// WithBody sets the request body (will be JSON encoded)
func (rb *RequestBuilder) WithBody(body interface{}) *RequestBuilder {
	rb.body = body
	return rb
}

// WithRawBody sends body as is
func (rb *RequestBuilder) WithRawBody(body string) *RequestBuilder {
	rb.raw = []byte(body)
	return rb
}

// WithForm sends fields as multipart/form-data. A non-nil image is attached
// as the "image" file part.
func (rb *RequestBuilder) WithForm(fields map[string]string, image []byte) *RequestBuilder {
	rb.form = true
	rb.fields = fields
	rb.file = image
	return rb
}

// WithHeader adds a header to the request
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// WithToken adds a bearer token
func (rb *RequestBuilder) WithToken(token string) *RequestBuilder {
	if token != "" {
		rb.headers["Authorization"] = "Bearer " + token
	}
	return rb
}

// Build creates the HTTP request
func (rb *RequestBuilder) Build() *http.Request {
	rb.t.Helper()

	var (
		bodyReader  io.Reader
		contentType string
	)
	switch {
	case rb.form:
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for k, v := range rb.fields {
			if err := mw.WriteField(k, v); err != nil {
				rb.t.Fatalf("helpers: failed to write field %s: %v", k, err)
			}
		}
		if rb.file != nil {
			fw, err := mw.CreateFormFile("image", "image.png")
			if err != nil {
				rb.t.Fatalf("helpers: failed to create file part: %v", err)
			}
			if _, err := fw.Write(rb.file); err != nil {
				rb.t.Fatalf("helpers: failed to write file part: %v", err)
			}
		}
		if err := mw.Close(); err != nil {
			rb.t.Fatalf("helpers: failed to close multipart body: %v", err)
		}
		bodyReader = &buf
		contentType = mw.FormDataContentType()
	case rb.raw != nil:
		bodyReader = bytes.NewReader(rb.raw)
		contentType = "application/json"
	case rb.body != nil:
		bodyBytes, err := json.Marshal(rb.body)
		if err != nil {
			rb.t.Fatalf("helpers: failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
		contentType = "application/json"
	}

	req := httptest.NewRequest(rb.method, rb.path, bodyReader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}
	return req
}

// ============================================================================
// Response Assertion Helpers
// ============================================================================

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if resp.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, resp.Code, resp.Body.String())
	}
}

// AssertProblemDetails validates an RFC 9457 Problem Details error response
// and returns it. A zero expectedCode skips the code check.
func AssertProblemDetails(t *testing.T, resp *httptest.ResponseRecorder, expectedStatus int, expectedCode model.ErrorCode) model.ProblemDetails {
	t.Helper()

	AssertStatus(t, resp, expectedStatus)

	var problem model.ProblemDetails
	DecodeResponse(t, resp, &problem)

	if problem.Status != expectedStatus {
		t.Errorf("expected problem.status %d, got %d", expectedStatus, problem.Status)
	}
	if expectedCode != 0 && problem.Code != expectedCode {
		t.Errorf("expected problem.code %d, got %d", expectedCode, problem.Code)
	}
	if problem.Message != problem.Detail {
		t.Errorf("expected message to mirror detail, got %q and %q", problem.Message, problem.Detail)
	}
	return problem
}

// AssertValidationError checks for a validation error on a specific field
func AssertValidationError(t *testing.T, resp *httptest.ResponseRecorder, field string) {
	t.Helper()

	problem := AssertProblemDetails(t, resp, http.StatusUnprocessableEntity, model.ErrCodeValidation)
	for _, fe := range problem.Errors {
		if fe.Field == field {
			return
		}
	}
	t.Errorf("expected validation error on field %q, but not found. Errors: %+v", field, problem.Errors)
}

// DecodeResponse decodes the response body into the given struct
func DecodeResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	bodyBytes := resp.Body.Bytes()
	if err := json.Unmarshal(bodyBytes, v); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, string(bodyBytes))
	}
}

// ============================================================================
// Database Assertion Helpers
// ============================================================================

// AssertRecordExists checks that the record id exists in the database
func AssertRecordExists(t *testing.T, db database.Database, id string) {
	t.Helper()
	if !recordExists(t, db, id) {
		t.Errorf("expected record %s to exist", id)
	}
}

// AssertRecordNotExists checks that the record id is absent
func AssertRecordNotExists(t *testing.T, db database.Database, id string) {
	t.Helper()
	if recordExists(t, db, id) {
		t.Errorf("expected record %s to be deleted", id)
	}
}

func recordExists(t *testing.T, db database.Database, id string) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	table, key := model.SplitID("", id)
	if table == "" || key == "" {
		t.Fatalf("helpers: invalid record id %q", id)
	}

	result, err := db.QueryOne(ctx, "SELECT * FROM type::thing($tb, $key)", map[string]interface{}{
		"tb":  table,
		"key": key,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false
		}
		t.Fatalf("helpers: failed to query %s: %v", id, err)
	}
	return result != nil
}
