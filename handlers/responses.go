// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/readiness-pulse/auth"
	"github.com/danielhkuo/readiness-pulse/cliparse"
	"github.com/danielhkuo/readiness-pulse/middleware"
	"github.com/danielhkuo/readiness-pulse/models"
)

type ResponseHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResponseHandler(db *sql.DB, cfg cliparse.Config) *ResponseHandler {
	return &ResponseHandler{db: db, cfg: cfg}
}

// ClaimRespondent handles POST /s/:slug/respondents
func (h *ResponseHandler) ClaimRespondent(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.ClaimRespondentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.DisplayName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name is required")
		return
	}
	if len(req.DisplayName) < 2 || len(req.DisplayName) > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name must be 2-50 characters")
		return
	}

	// Find survey by share slug
	var surveyID string
	var status string
	err := h.db.QueryRow(`
		SELECT id, status FROM survey WHERE share_slug = $1
	`, shareSlug).Scan(&surveyID, &status)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Survey is not open for responses")
		return
	}

	token, err := auth.GenerateRespondentToken()
	if err != nil {
		slog.Error("failed to generate respondent token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to claim respondent")
		return
	}

	respondentID := uuid.NewString()
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)

	// UNIQUE constraint prevents duplicate display names per survey
	_, err = h.db.Exec(`
		INSERT INTO respondent_claim (id, survey_id, display_name, token, ip_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, respondentID, surveyID, req.DisplayName, token, ipHash, time.Now())

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Display name already taken")
			return
		}
		slog.Error("failed to insert respondent claim", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to claim respondent")
		return
	}

	slog.Info("respondent claimed", "survey_id", surveyID, "display_name", req.DisplayName)

	middleware.JSONResponse(w, http.StatusCreated, models.ClaimRespondentResponse{
		RespondentToken: token,
	})
}

// SubmitResponse handles POST /s/:slug/responses
// Re-submitting for the same question overwrites the previous answer, which
// covers the re-record / re-transcribe flow. Writes are rejected once the
// respondent has finalized.
func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	surveyID, respondentID, ok := h.authorizeRespondent(w, r, shareSlug, true)
	if !ok {
		return
	}

	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.QuestionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_id is required")
		return
	}
	if strings.TrimSpace(req.Answer) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "answer is required")
		return
	}
	if req.Confidence != nil && (*req.Confidence < 0 || *req.Confidence > 100) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "confidence must be between 0 and 100")
		return
	}
	switch req.InputMethod {
	case "", models.InputText, models.InputVoice:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "input_method must be text or voice")
		return
	}
	if req.TranscriptionConfidence != nil {
		if req.InputMethod != models.InputVoice {
			middleware.ErrorResponse(w, http.StatusBadRequest, "transcription_confidence requires input_method voice")
			return
		}
		if *req.TranscriptionConfidence < 0 || *req.TranscriptionConfidence > 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "transcription_confidence must be between 0 and 1")
			return
		}
	}

	// The question must belong to this survey
	var questionSurveyID string
	err := h.db.QueryRow("SELECT survey_id FROM question WHERE id = $1", req.QuestionID).Scan(&questionSurveyID)
	if err == sql.ErrNoRows || (err == nil && questionSurveyID != surveyID) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	responseID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO response (id, survey_id, question_id, respondent_id, answer,
		                      confidence, input_method, transcription_confidence, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (question_id, respondent_id)
		DO UPDATE SET answer = excluded.answer,
		              confidence = excluded.confidence,
		              input_method = excluded.input_method,
		              transcription_confidence = excluded.transcription_confidence,
		              submitted_at = excluded.submitted_at
	`, responseID, surveyID, req.QuestionID, respondentID, req.Answer,
		req.Confidence, nullableString(req.InputMethod), req.TranscriptionConfidence, time.Now())

	if err != nil {
		slog.Error("failed to upsert response", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
		return
	}

	slog.Info("response saved", "survey_id", surveyID, "question_id", req.QuestionID)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponseResponse{
		ResponseID: responseID,
		Message:    "Response recorded",
	})
}

// FinalizeSession handles POST /s/:slug/finalize
// After finalizing, the respondent's answers are immutable.
func (h *ResponseHandler) FinalizeSession(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	_, respondentID, ok := h.authorizeRespondent(w, r, shareSlug, true)
	if !ok {
		return
	}

	_, err := h.db.Exec(`
		UPDATE respondent_claim SET finalized_at = $1 WHERE id = $2 AND finalized_at IS NULL
	`, time.Now(), respondentID)
	if err != nil {
		slog.Error("failed to finalize session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to finalize")
		return
	}

	slog.Info("session finalized", "respondent_id", respondentID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Session finalized"})
}

// authorizeRespondent resolves the X-Respondent-Token header against the
// survey behind slug. When requireWritable is set, a finalized session or a
// non-open survey is rejected.
func (h *ResponseHandler) authorizeRespondent(w http.ResponseWriter, r *http.Request, shareSlug string, requireWritable bool) (surveyID, respondentID string, ok bool) {
	token := r.Header.Get("X-Respondent-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Respondent-Token header required")
		return "", "", false
	}

	var status string
	var finalizedAt sql.NullTime
	err := h.db.QueryRow(`
		SELECT s.id, s.status, rc.id, rc.finalized_at
		FROM survey s
		JOIN respondent_claim rc ON rc.survey_id = s.id
		WHERE s.share_slug = $1 AND rc.token = $2
	`, shareSlug, token).Scan(&surveyID, &status, &respondentID, &finalizedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unknown respondent token")
		return "", "", false
	}
	if err != nil {
		slog.Error("failed to authorize respondent", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return "", "", false
	}

	if requireWritable {
		if status != models.StatusOpen {
			middleware.ErrorResponse(w, http.StatusConflict, "Survey is not open for responses")
			return "", "", false
		}
		if finalizedAt.Valid {
			middleware.ErrorResponse(w, http.StatusConflict, "Session already finalized")
			return "", "", false
		}
	}

	return surveyID, respondentID, true
}

// isUniqueViolation matches unique-constraint errors from both supported
// drivers (lib/pq and modernc sqlite).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
