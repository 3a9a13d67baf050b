// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/readiness-pulse/cliparse"
	"github.com/danielhkuo/readiness-pulse/middleware"
	"github.com/danielhkuo/readiness-pulse/scoring"
	"github.com/danielhkuo/readiness-pulse/store"
)

type ScoresHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	store *store.Store
}

func NewScoresHandler(db *sql.DB, cfg cliparse.Config) *ScoresHandler {
	return &ScoresHandler{db: db, cfg: cfg, store: store.New(db)}
}

// GetMyScores handles GET /s/:slug/my-scores
// Scores are recomputed from the raw responses on every call; forces the
// respondent has not answered come back marked insufficient_data.
func (h *ScoresHandler) GetMyScores(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	token := r.Header.Get("X-Respondent-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Respondent-Token header required")
		return
	}

	var surveyID, respondentID string
	err := h.db.QueryRow(`
		SELECT s.id, rc.id
		FROM survey s
		JOIN respondent_claim rc ON rc.survey_id = s.id
		WHERE s.share_slug = $1 AND rc.token = $2
	`, shareSlug, token).Scan(&surveyID, &respondentID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unknown respondent token")
		return
	}
	if err != nil {
		slog.Error("failed to authorize respondent", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	questions, err := h.store.FetchQuestions(r.Context(), surveyID)
	if err != nil {
		slog.Error("failed to fetch questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	responses, err := h.store.FetchRespondentResponses(r.Context(), surveyID, respondentID)
	if err != nil {
		slog.Error("failed to fetch responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	card, err := scoring.ComputeForceScores(respondentID, responses, questions, h.cfg.ScoringParams(), nil)
	if errors.Is(err, scoring.ErrNoQuestions) {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Survey has no questions")
		return
	}
	if err != nil {
		slog.Error("failed to compute force scores", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute scores")
		return
	}

	for _, warning := range card.Warnings {
		slog.Warn("data integrity warning",
			"survey_id", surveyID,
			"response_id", warning.ResponseID,
			"reason", warning.Reason)
	}

	middleware.JSONResponse(w, http.StatusOK, card)
}
