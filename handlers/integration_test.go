// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/readiness-pulse/models"
	"github.com/danielhkuo/readiness-pulse/testutil"
)

// TestFullSurveyWorkflow tests the complete end-to-end workflow:
// 1. Create survey
// 2. Add questions for each force
// 3. Check coverage
// 4. Publish survey
// 5. Respondents claim display names
// 6. Respondents submit answers
// 7. A respondent checks their own scores
// 8. Respondents finalize
// 9. Close survey
// 10. Verify the frozen aggregate and summary
func TestFullSurveyWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	surveyHandler := NewSurveyHandler(db, cfg, nil)
	responseHandler := NewResponseHandler(db, cfg)
	scoresHandler := NewScoresHandler(db, cfg)
	aggregateHandler := NewAggregateHandler(db, cfg, nil)

	// Step 1: Create a survey
	createReq := models.CreateSurveyRequest{
		Title:        "Q3 AI Readiness Pulse",
		Organization: "Acme Corp",
		CreatorName:  "IntegrationTester",
	}
	body, _ := json.Marshal(createReq)
	req := httptest.NewRequest("POST", "/surveys", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	surveyHandler.CreateSurvey(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create survey failed: %d - %s", w.Code, w.Body.String())
	}

	var createResp models.CreateSurveyResponse
	json.NewDecoder(w.Body).Decode(&createResp)
	surveyID := createResp.SurveyID
	adminKey := createResp.AdminKey

	if surveyID == "" || adminKey == "" {
		t.Fatal("Step 1 - Missing survey_id or admin_key")
	}
	t.Logf("Step 1 - Created survey: %s", surveyID)

	// Step 2: Add one question per force
	questions := map[string]string{}
	questionSpecs := []struct {
		text  string
		force string
	}{
		{"What is your role?", "demographic"},
		{"What takes the most time in your current process?", "pain_of_old"},
		{"What would better tooling let your team do?", "pull_of_new"},
		{"What keeps you on the current process?", "anchors_to_old"},
		{"What worries you about adopting AI tools?", "anxiety_of_new"},
	}
	for _, spec := range questionSpecs {
		body, _ := json.Marshal(models.AddQuestionRequest{Text: spec.text, Force: spec.force})
		req := httptest.NewRequest("POST", "/surveys/"+surveyID+"/questions", bytes.NewReader(body))
		req.SetPathValue("id", surveyID)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Admin-Key", adminKey)
		w := httptest.NewRecorder()
		surveyHandler.AddQuestion(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Add question (%s) failed: %d - %s", spec.force, w.Code, w.Body.String())
		}
		var resp models.AddQuestionResponse
		json.NewDecoder(w.Body).Decode(&resp)
		questions[spec.force] = resp.QuestionID
	}
	t.Logf("Step 2 - Added %d questions", len(questions))

	// Step 3: Coverage report (one question per force is below the default
	// threshold of two, so every non-demographic force gets flagged)
	req = httptest.NewRequest("GET", "/surveys/"+surveyID+"/coverage", nil)
	req.SetPathValue("id", surveyID)
	req.Header.Set("X-Admin-Key", adminKey)
	w = httptest.NewRecorder()
	surveyHandler.GetCoverage(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Coverage failed: %d - %s", w.Code, w.Body.String())
	}
	var coverage models.CoverageReport
	json.NewDecoder(w.Body).Decode(&coverage)
	if coverage.QuestionCount != 5 {
		t.Fatalf("Step 3 - Expected 5 questions, got %d", coverage.QuestionCount)
	}
	if len(coverage.Warnings) != 4 {
		t.Errorf("Step 3 - Expected 4 low-coverage warnings, got %d", len(coverage.Warnings))
	}
	t.Log("Step 3 - Coverage report verified")

	// Step 4: Publish
	req = httptest.NewRequest("POST", "/surveys/"+surveyID+"/publish", nil)
	req.SetPathValue("id", surveyID)
	req.Header.Set("X-Admin-Key", adminKey)
	w = httptest.NewRecorder()
	surveyHandler.PublishSurvey(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - Publish failed: %d - %s", w.Code, w.Body.String())
	}
	var publishResp models.PublishSurveyResponse
	json.NewDecoder(w.Body).Decode(&publishResp)
	slug := publishResp.ShareSlug
	if slug == "" {
		t.Fatal("Step 4 - Missing share_slug")
	}
	t.Logf("Step 4 - Published with slug: %s", slug)

	// Step 5: Two respondents claim display names
	tokens := map[string]string{}
	for _, name := range []string{"alice", "bob"} {
		body, _ := json.Marshal(models.ClaimRespondentRequest{DisplayName: name})
		req := httptest.NewRequest("POST", "/s/"+slug+"/respondents", bytes.NewReader(body))
		req.SetPathValue("slug", slug)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		responseHandler.ClaimRespondent(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Step 5 - Claim (%s) failed: %d - %s", name, w.Code, w.Body.String())
		}
		var resp models.ClaimRespondentResponse
		json.NewDecoder(w.Body).Decode(&resp)
		tokens[name] = resp.RespondentToken
	}
	t.Log("Step 5 - Respondents claimed")

	// Step 6: Both respondents answer every question
	answers := map[string]string{
		"demographic":    "I am a senior data analyst on the finance team.",
		"pain_of_old":    "Consolidating spreadsheets from four systems takes two full days every month.",
		"pull_of_new":    "Automated checks would let us catch errors the same day instead of a week later.",
		"anchors_to_old": "Our auditors already understand the current spreadsheet templates.",
		"anxiety_of_new": "I worry the model will misread edge cases in our revenue recognition rules.",
	}
	confidence := 75.0
	for name, token := range tokens {
		for force, questionID := range questions {
			body, _ := json.Marshal(models.SubmitResponseRequest{
				QuestionID: questionID,
				Answer:     answers[force],
				Confidence: &confidence,
			})
			req := httptest.NewRequest("POST", "/s/"+slug+"/responses", bytes.NewReader(body))
			req.SetPathValue("slug", slug)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Respondent-Token", token)
			w := httptest.NewRecorder()
			responseHandler.SubmitResponse(w, req)

			if w.Code != http.StatusCreated {
				t.Fatalf("Step 6 - Submit (%s/%s) failed: %d - %s", name, force, w.Code, w.Body.String())
			}
		}
	}
	t.Log("Step 6 - Responses submitted")

	// Step 7: alice checks her own scores
	req = httptest.NewRequest("GET", "/s/"+slug+"/my-scores", nil)
	req.SetPathValue("slug", slug)
	req.Header.Set("X-Respondent-Token", tokens["alice"])
	w = httptest.NewRecorder()
	scoresHandler.GetMyScores(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - My scores failed: %d - %s", w.Code, w.Body.String())
	}
	var card models.Scorecard
	json.NewDecoder(w.Body).Decode(&card)
	if len(card.Scores) != 5 {
		t.Fatalf("Step 7 - Expected 5 force scores, got %d", len(card.Scores))
	}
	for force, score := range card.Scores {
		if score.InsufficientData {
			t.Errorf("Step 7 - Unexpected insufficient_data for %s", force)
		}
	}
	t.Log("Step 7 - Per-respondent scores verified")

	// Step 8: Finalize both sessions
	for name, token := range tokens {
		req := httptest.NewRequest("POST", "/s/"+slug+"/finalize", nil)
		req.SetPathValue("slug", slug)
		req.Header.Set("X-Respondent-Token", token)
		w := httptest.NewRecorder()
		responseHandler.FinalizeSession(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Step 8 - Finalize (%s) failed: %d - %s", name, w.Code, w.Body.String())
		}
	}
	t.Log("Step 8 - Sessions finalized")

	// Step 9: Close the survey
	req = httptest.NewRequest("POST", "/surveys/"+surveyID+"/close", nil)
	req.SetPathValue("id", surveyID)
	req.Header.Set("X-Admin-Key", adminKey)
	w = httptest.NewRecorder()
	surveyHandler.CloseSurvey(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 9 - Close failed: %d - %s", w.Code, w.Body.String())
	}
	var closeResp models.CloseSurveyResponse
	json.NewDecoder(w.Body).Decode(&closeResp)
	if closeResp.Aggregate.RespondentCount != 2 {
		t.Errorf("Step 9 - Expected 2 respondents in aggregate, got %d", closeResp.Aggregate.RespondentCount)
	}
	if !closeResp.Aggregate.ReadinessDefined {
		t.Error("Step 9 - Expected readiness to be defined")
	}
	t.Log("Step 9 - Survey closed")

	// Step 10: Aggregate and summary reflect the frozen snapshot
	req = httptest.NewRequest("GET", "/surveys/"+surveyID+"/aggregate", nil)
	req.SetPathValue("id", surveyID)
	req.Header.Set("X-Admin-Key", adminKey)
	w = httptest.NewRecorder()
	aggregateHandler.GetAggregate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 10 - Aggregate failed: %d - %s", w.Code, w.Body.String())
	}
	var agg models.OrganizationAggregate
	json.NewDecoder(w.Body).Decode(&agg)
	if len(agg.Forces) != 5 {
		t.Errorf("Step 10 - Expected 5 force aggregates, got %d", len(agg.Forces))
	}

	req = httptest.NewRequest("GET", "/surveys/"+surveyID+"/summary", nil)
	req.SetPathValue("id", surveyID)
	req.Header.Set("X-Admin-Key", adminKey)
	w = httptest.NewRecorder()
	aggregateHandler.GetSummary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 10 - Summary failed: %d - %s", w.Code, w.Body.String())
	}
	var summary models.SurveySummaryResponse
	json.NewDecoder(w.Body).Decode(&summary)
	if summary.Status != models.StatusClosed {
		t.Errorf("Step 10 - Expected status 'closed', got '%s'", summary.Status)
	}
	if summary.Readiness == nil {
		t.Error("Step 10 - Expected readiness in summary after close")
	}
	t.Log("Step 10 - Aggregate and summary verified")
}
