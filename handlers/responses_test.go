// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/readiness-pulse/models"
	"github.com/danielhkuo/readiness-pulse/testutil"
)

func TestClaimRespondent(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewResponseHandler(db, cfg)

	_, _, shareSlug := testutil.CreateTestSurvey(t, db, cfg, "open")

	tests := []struct {
		name           string
		slug           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "valid claim",
			slug:           shareSlug,
			requestBody:    models.ClaimRespondentRequest{DisplayName: "alice"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate display name",
			slug:           shareSlug,
			requestBody:    models.ClaimRespondentRequest{DisplayName: "alice"},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "name too short",
			slug:           shareSlug,
			requestBody:    models.ClaimRespondentRequest{DisplayName: "a"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing display name",
			slug:           shareSlug,
			requestBody:    models.ClaimRespondentRequest{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown slug",
			slug:           "nonexistent",
			requestBody:    models.ClaimRespondentRequest{DisplayName: "bob"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatalf("Failed to marshal request body: %v", err)
			}

			req := httptest.NewRequest("POST", "/s/"+tt.slug+"/respondents", bytes.NewReader(body))
			req.SetPathValue("slug", tt.slug)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ClaimRespondent(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusCreated {
				var resp models.ClaimRespondentResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if resp.RespondentToken == "" {
					t.Error("Expected non-empty respondent_token")
				}
			}
		})
	}
}

func TestClaimRespondentOnDraftSurvey(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewResponseHandler(db, cfg)

	// Draft surveys have no slug, so claim through a slug we write manually.
	surveyID, _, _ := testutil.CreateTestSurvey(t, db, cfg, "draft")
	if _, err := db.Exec("UPDATE survey SET share_slug = 'draftslug' WHERE id = $1", surveyID); err != nil {
		t.Fatalf("Failed to set slug: %v", err)
	}

	body, _ := json.Marshal(models.ClaimRespondentRequest{DisplayName: "alice"})
	req := httptest.NewRequest("POST", "/s/draftslug/respondents", bytes.NewReader(body))
	req.SetPathValue("slug", "draftslug")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ClaimRespondent(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestSubmitResponse(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewResponseHandler(db, cfg)

	surveyID, _, shareSlug := testutil.CreateTestSurvey(t, db, cfg, "open")
	questionID := testutil.AddTestQuestion(t, db, surveyID, "What slows you down today?", "pain_of_old")
	_, token := testutil.CreateTestRespondent(t, db, surveyID, "alice")

	otherSurveyID, _, _ := testutil.CreateTestSurvey(t, db, cfg, "open")
	foreignQuestionID := testutil.AddTestQuestion(t, db, otherSurveyID, "Unrelated question", "pull_of_new")

	confidence := 75.0
	badConfidence := 140.0
	transcription := 0.9
	badTranscription := 1.4

	tests := []struct {
		name           string
		token          string
		requestBody    models.SubmitResponseRequest
		expectedStatus int
	}{
		{
			name:  "valid text response",
			token: token,
			requestBody: models.SubmitResponseRequest{
				QuestionID: questionID,
				Answer:     "Manual reporting eats about two days a week.",
				Confidence: &confidence,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:  "valid voice response",
			token: token,
			requestBody: models.SubmitResponseRequest{
				QuestionID:              questionID,
				Answer:                  "Chasing numbers across four different systems.",
				InputMethod:             models.InputVoice,
				TranscriptionConfidence: &transcription,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:  "missing question",
			token: token,
			requestBody: models.SubmitResponseRequest{
				Answer: "An answer with no question",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "blank answer",
			token: token,
			requestBody: models.SubmitResponseRequest{
				QuestionID: questionID,
				Answer:     "   ",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "confidence out of range",
			token: token,
			requestBody: models.SubmitResponseRequest{
				QuestionID: questionID,
				Answer:     "An answer",
				Confidence: &badConfidence,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "unknown input method",
			token: token,
			requestBody: models.SubmitResponseRequest{
				QuestionID:  questionID,
				Answer:      "An answer",
				InputMethod: "telepathy",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "transcription confidence without voice",
			token: token,
			requestBody: models.SubmitResponseRequest{
				QuestionID:              questionID,
				Answer:                  "An answer",
				InputMethod:             models.InputText,
				TranscriptionConfidence: &transcription,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "transcription confidence out of range",
			token: token,
			requestBody: models.SubmitResponseRequest{
				QuestionID:              questionID,
				Answer:                  "An answer",
				InputMethod:             models.InputVoice,
				TranscriptionConfidence: &badTranscription,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "question from another survey",
			token: token,
			requestBody: models.SubmitResponseRequest{
				QuestionID: foreignQuestionID,
				Answer:     "An answer",
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:  "unknown token",
			token: "bogus-token",
			requestBody: models.SubmitResponseRequest{
				QuestionID: questionID,
				Answer:     "An answer",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:  "missing token",
			token: "",
			requestBody: models.SubmitResponseRequest{
				QuestionID: questionID,
				Answer:     "An answer",
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatalf("Failed to marshal request body: %v", err)
			}

			req := httptest.NewRequest("POST", "/s/"+shareSlug+"/responses", bytes.NewReader(body))
			req.SetPathValue("slug", shareSlug)
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("X-Respondent-Token", tt.token)
			}
			w := httptest.NewRecorder()

			handler.SubmitResponse(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestSubmitResponseOverwritesPrevious(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewResponseHandler(db, cfg)

	surveyID, _, shareSlug := testutil.CreateTestSurvey(t, db, cfg, "open")
	questionID := testutil.AddTestQuestion(t, db, surveyID, "What slows you down today?", "pain_of_old")
	respondentID, token := testutil.CreateTestRespondent(t, db, surveyID, "alice")

	submit := func(answer string) {
		body, _ := json.Marshal(models.SubmitResponseRequest{QuestionID: questionID, Answer: answer})
		req := httptest.NewRequest("POST", "/s/"+shareSlug+"/responses", bytes.NewReader(body))
		req.SetPathValue("slug", shareSlug)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Respondent-Token", token)
		w := httptest.NewRecorder()

		handler.SubmitResponse(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	submit("First attempt at an answer.")
	submit("Second attempt, after re-recording.")

	// One row per question per respondent; latest answer wins.
	var count int
	if err := db.QueryRow(`
		SELECT COUNT(*) FROM response WHERE question_id = $1 AND respondent_id = $2
	`, questionID, respondentID).Scan(&count); err != nil {
		t.Fatalf("Failed to count responses: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 response row, got %d", count)
	}

	var answer string
	if err := db.QueryRow(`
		SELECT answer FROM response WHERE question_id = $1 AND respondent_id = $2
	`, questionID, respondentID).Scan(&answer); err != nil {
		t.Fatalf("Failed to query response: %v", err)
	}
	if answer != "Second attempt, after re-recording." {
		t.Errorf("Expected overwritten answer, got %q", answer)
	}
}

func TestSubmitResponseAfterFinalize(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewResponseHandler(db, cfg)

	surveyID, _, shareSlug := testutil.CreateTestSurvey(t, db, cfg, "open")
	questionID := testutil.AddTestQuestion(t, db, surveyID, "What slows you down today?", "pain_of_old")
	respondentID, token := testutil.CreateTestRespondent(t, db, surveyID, "alice")

	if _, err := db.Exec("UPDATE respondent_claim SET finalized_at = $1 WHERE id = $2", time.Now(), respondentID); err != nil {
		t.Fatalf("Failed to finalize respondent: %v", err)
	}

	body, _ := json.Marshal(models.SubmitResponseRequest{QuestionID: questionID, Answer: "Too late."})
	req := httptest.NewRequest("POST", "/s/"+shareSlug+"/responses", bytes.NewReader(body))
	req.SetPathValue("slug", shareSlug)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Respondent-Token", token)
	w := httptest.NewRecorder()

	handler.SubmitResponse(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestFinalizeSession(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewResponseHandler(db, cfg)

	surveyID, _, shareSlug := testutil.CreateTestSurvey(t, db, cfg, "open")
	respondentID, token := testutil.CreateTestRespondent(t, db, surveyID, "alice")

	req := httptest.NewRequest("POST", "/s/"+shareSlug+"/finalize", nil)
	req.SetPathValue("slug", shareSlug)
	req.Header.Set("X-Respondent-Token", token)
	w := httptest.NewRecorder()

	handler.FinalizeSession(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var finalized bool
	if err := db.QueryRow(`
		SELECT finalized_at IS NOT NULL FROM respondent_claim WHERE id = $1
	`, respondentID).Scan(&finalized); err != nil {
		t.Fatalf("Failed to query respondent: %v", err)
	}
	if !finalized {
		t.Error("Expected finalized_at to be set")
	}
}
