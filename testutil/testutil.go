// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/readiness-pulse/auth"
	"github.com/danielhkuo/readiness-pulse/cliparse"
	"github.com/danielhkuo/readiness-pulse/db"
	"github.com/danielhkuo/readiness-pulse/scoring"
)

// SetupTestDB opens a fresh in-memory sqlite database with the full schema.
// Each test gets its own database; it disappears when the connection closes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A second connection to :memory: would see an empty database.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn, "sqlite"); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	defaults := scoring.DefaultParams()
	return cliparse.Config{
		Port:               3418,
		DatabaseURL:        ":memory:",
		DatabaseType:       "sqlite",
		AdminKeySalt:       "test-admin-salt",
		SlugSalt:           "test-slug-salt",
		CoverageThreshold:  defaults.CoverageThreshold,
		MinWordCount:       defaults.MinWordCount,
		ShortAnswerPenalty: defaults.ShortAnswerPenalty,
		BaseInterval:       defaults.BaseInterval,
		OutlierSDs:         defaults.OutlierSDs,
		SentimentWeight:    defaults.SentimentWeight,
		BatchConcurrency:   4,
	}
}

// CreateTestSurvey creates a survey in the database and returns its ID,
// admin key, and share slug. status should be "draft", "open", or "closed".
func CreateTestSurvey(t *testing.T, conn *sql.DB, cfg cliparse.Config, status string) (surveyID, adminKey, shareSlug string) {
	t.Helper()

	surveyID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(surveyID, cfg.AdminKeySalt)

	var slug *string
	if status == "open" || status == "closed" {
		s := auth.GenerateShareSlug(surveyID, cfg.SlugSalt)
		slug = &s
		shareSlug = s
	}

	var closedAt *time.Time
	if status == "closed" {
		now := time.Now()
		closedAt = &now
	}

	_, err := conn.Exec(`
		INSERT INTO survey (id, title, organization, creator_name, status, share_slug, closed_at, created_at)
		VALUES ($1, 'Test Survey', 'Acme Corp', 'TestAdmin', $2, $3, $4, $5)
	`, surveyID, status, slug, closedAt, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test survey: %v", err)
	}

	return surveyID, adminKey, shareSlug
}

// AddTestQuestion adds a question tagged with the given force and returns
// the question ID
func AddTestQuestion(t *testing.T, conn *sql.DB, surveyID, text, force string) string {
	t.Helper()

	questionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO question (id, survey_id, text, force)
		VALUES ($1, $2, $3, $4)
	`, questionID, surveyID, text, force)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return questionID
}

// CreateTestRespondent claims a display name for a survey and returns the
// respondent ID and token
func CreateTestRespondent(t *testing.T, conn *sql.DB, surveyID, displayName string) (respondentID, token string) {
	t.Helper()

	respondentID = uuid.NewString()
	token, _ = auth.GenerateRespondentToken()
	_, err := conn.Exec(`
		INSERT INTO respondent_claim (id, survey_id, display_name, token, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, respondentID, surveyID, displayName, token, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test respondent: %v", err)
	}

	return respondentID, token
}

// SubmitTestResponse writes a response row directly and returns the
// response ID. confidence may be nil.
func SubmitTestResponse(t *testing.T, conn *sql.DB, surveyID, questionID, respondentID, answer string, confidence *float64) string {
	t.Helper()

	responseID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO response (id, survey_id, question_id, respondent_id, answer, confidence, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, responseID, surveyID, questionID, respondentID, answer, confidence, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test response: %v", err)
	}

	return responseID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
