// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/readiness-pulse/auth"
	"github.com/danielhkuo/readiness-pulse/batch"
	"github.com/danielhkuo/readiness-pulse/cliparse"
	"github.com/danielhkuo/readiness-pulse/middleware"
	"github.com/danielhkuo/readiness-pulse/models"
	"github.com/danielhkuo/readiness-pulse/scoring"
	"github.com/danielhkuo/readiness-pulse/sentiment"
	"github.com/danielhkuo/readiness-pulse/store"
)

type AggregateHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	store    *store.Store
	analyzer sentiment.Analyzer
}

func NewAggregateHandler(db *sql.DB, cfg cliparse.Config, analyzer sentiment.Analyzer) *AggregateHandler {
	return &AggregateHandler{db: db, cfg: cfg, store: store.New(db), analyzer: analyzer}
}

// GetAggregate handles GET /surveys/:id/aggregate
// Closed surveys serve the frozen snapshot; open surveys recompute from the
// current responses (without the sentiment signal, to keep the read cheap).
func (h *AggregateHandler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "survey_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(surveyID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var status string
	var snapshotID sql.NullString
	err := h.db.QueryRow(`
		SELECT status, final_snapshot_id FROM survey WHERE id = $1
	`, surveyID).Scan(&status, &snapshotID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status == models.StatusClosed && snapshotID.Valid {
		agg, err := h.store.FetchAggregateSnapshot(r.Context(), snapshotID.String)
		if err == nil {
			middleware.JSONResponse(w, http.StatusOK, agg)
			return
		}
		// Snapshot unreadable: recompute rather than fail the read.
		slog.Warn("failed to load aggregate snapshot, recomputing", "snapshot_id", snapshotID.String, "error", err)
	}

	runner := &batch.Runner{
		Store:       h.store,
		Params:      h.cfg.ScoringParams(),
		Concurrency: h.cfg.BatchConcurrency,
	}
	report, err := runner.Run(r.Context(), surveyID)
	if errors.Is(err, scoring.ErrNoQuestions) {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Survey has no questions")
		return
	}
	if err != nil {
		slog.Error("aggregate computation failed", "survey_id", surveyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute aggregate")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, report.Aggregate)
}

// Analyze handles POST /surveys/:id/analyze
// Runs a full batch analysis with the sentiment signal enabled (when
// configured) and returns the per-respondent report. Individual sentiment
// failures are listed in the report, never fatal.
func (h *AggregateHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "survey_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(surveyID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var exists bool
	err := h.db.QueryRow("SELECT EXISTS(SELECT 1 FROM survey WHERE id = $1)", surveyID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}

	runner := &batch.Runner{
		Store:       h.store,
		Analyzer:    h.analyzer,
		Params:      h.cfg.ScoringParams(),
		Concurrency: h.cfg.BatchConcurrency,
	}
	report, err := runner.Run(r.Context(), surveyID)
	if errors.Is(err, scoring.ErrNoQuestions) {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Survey has no questions")
		return
	}
	if err != nil {
		slog.Error("batch analysis failed", "survey_id", surveyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to analyze survey")
		return
	}

	slog.Info("batch analysis complete", "survey_id", surveyID,
		"respondents", len(report.Scorecards),
		"sentiment_failures", len(report.SentimentFailures))

	middleware.JSONResponse(w, http.StatusOK, report)
}

// GetSummary handles GET /surveys/:id/summary
// Compact dashboard numbers; readiness appears once a snapshot exists.
func (h *AggregateHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "survey_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(surveyID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var title, status string
	var snapshotID sql.NullString
	err := h.db.QueryRow(`
		SELECT title, status, final_snapshot_id FROM survey WHERE id = $1
	`, surveyID).Scan(&title, &status, &snapshotID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	summary := models.SurveySummaryResponse{
		Title:  title,
		Status: status,
	}

	if err := h.db.QueryRow("SELECT COUNT(*) FROM question WHERE survey_id = $1", surveyID).Scan(&summary.QuestionCount); err != nil {
		slog.Error("failed to count questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err := h.db.QueryRow("SELECT COUNT(*) FROM respondent_claim WHERE survey_id = $1", surveyID).Scan(&summary.RespondentCount); err != nil {
		slog.Error("failed to count respondents", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err := h.db.QueryRow("SELECT COUNT(*) FROM response WHERE survey_id = $1", surveyID).Scan(&summary.ResponseCount); err != nil {
		slog.Error("failed to count responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var lastResponse sql.NullTime
	if err := h.db.QueryRow("SELECT MAX(submitted_at) FROM response WHERE survey_id = $1", surveyID).Scan(&lastResponse); err == nil && lastResponse.Valid {
		summary.LastResponse = humanize.Time(lastResponse.Time)
	}

	if snapshotID.Valid {
		if agg, err := h.store.FetchAggregateSnapshot(r.Context(), snapshotID.String); err == nil && agg.ReadinessDefined {
			readiness := agg.Readiness
			summary.Readiness = &readiness
		}
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}
