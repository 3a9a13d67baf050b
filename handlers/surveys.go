// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/readiness-pulse/auth"
	"github.com/danielhkuo/readiness-pulse/batch"
	"github.com/danielhkuo/readiness-pulse/cliparse"
	"github.com/danielhkuo/readiness-pulse/middleware"
	"github.com/danielhkuo/readiness-pulse/models"
	"github.com/danielhkuo/readiness-pulse/scoring"
	"github.com/danielhkuo/readiness-pulse/sentiment"
	"github.com/danielhkuo/readiness-pulse/store"
)

type SurveyHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	store    *store.Store
	analyzer sentiment.Analyzer
}

func NewSurveyHandler(db *sql.DB, cfg cliparse.Config, analyzer sentiment.Analyzer) *SurveyHandler {
	return &SurveyHandler{db: db, cfg: cfg, store: store.New(db), analyzer: analyzer}
}

// CreateSurvey handles POST /surveys
func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSurveyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Organization == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "organization is required")
		return
	}
	if req.CreatorName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "creator_name is required")
		return
	}

	// Generate survey ID
	surveyID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate survey ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}

	// Generate admin key
	adminKey := auth.GenerateAdminKey(surveyID, h.cfg.AdminKeySalt)

	// Insert survey into database
	_, err = h.db.Exec(`
		INSERT INTO survey (id, title, organization, creator_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, surveyID, req.Title, req.Organization, req.CreatorName, models.StatusDraft, time.Now())

	if err != nil {
		slog.Error("failed to insert survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}

	slog.Info("survey created", "survey_id", surveyID, "organization", req.Organization)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSurveyResponse{
		SurveyID: surveyID,
		AdminKey: adminKey,
	})
}

// AddQuestion handles POST /surveys/:id/questions
func (h *SurveyHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "survey_id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(surveyID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	// Parse request
	var req models.AddQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	// Every question carries exactly one force; demographic prompts use the
	// demographic force.
	force := models.Force(req.Force)
	if !force.Valid() {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"force must be one of: demographic, pain_of_old, pull_of_new, anchors_to_old, anxiety_of_new")
		return
	}

	// Check survey exists and is in draft status
	var status string
	err := h.db.QueryRow("SELECT status FROM survey WHERE id = $1", surveyID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot add questions to non-draft survey")
		return
	}

	questionID := uuid.NewString()

	_, err = h.db.Exec(`
		INSERT INTO question (id, survey_id, text, context, force)
		VALUES ($1, $2, $3, $4, $5)
	`, questionID, surveyID, req.Text, req.Context, string(force))

	if err != nil {
		slog.Error("failed to insert question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	slog.Info("question added", "survey_id", surveyID, "question_id", questionID, "force", string(force))

	middleware.JSONResponse(w, http.StatusCreated, models.AddQuestionResponse{
		QuestionID: questionID,
	})
}

// GetCoverage handles GET /surveys/:id/coverage
// Advisory report for survey designers; low coverage never blocks anything.
func (h *SurveyHandler) GetCoverage(w http.ResponseWriter, r *http.Request) {
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

	questions, err := h.store.FetchQuestions(r.Context(), surveyID)
	if err != nil {
		slog.Error("failed to fetch questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	report, err := scoring.ValidateCoverage(questions, h.cfg.ScoringParams())
	if errors.Is(err, scoring.ErrNoQuestions) {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Survey has no questions")
		return
	}
	if err != nil {
		slog.Error("coverage validation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to validate coverage")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}

// PublishSurvey handles POST /surveys/:id/publish
func (h *SurveyHandler) PublishSurvey(w http.ResponseWriter, r *http.Request) {
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
	err := h.db.QueryRow("SELECT status FROM survey WHERE id = $1", surveyID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Survey is not in draft status")
		return
	}

	// Questions are immutable once published; require at least one.
	var questionCount int
	if err := h.db.QueryRow("SELECT COUNT(*) FROM question WHERE survey_id = $1", surveyID).Scan(&questionCount); err != nil {
		slog.Error("failed to count questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if questionCount == 0 {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Cannot publish a survey with no questions")
		return
	}

	shareSlug := auth.GenerateShareSlug(surveyID, h.cfg.SlugSalt)

	_, err = h.db.Exec(`
		UPDATE survey SET status = $1, share_slug = $2 WHERE id = $3
	`, models.StatusOpen, shareSlug, surveyID)
	if err != nil {
		slog.Error("failed to publish survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to publish survey")
		return
	}

	slog.Info("survey published", "survey_id", surveyID, "share_slug", shareSlug)

	middleware.JSONResponse(w, http.StatusOK, models.PublishSurveyResponse{
		ShareSlug: shareSlug,
		ShareURL:  "/s/" + shareSlug,
	})
}

// CloseSurvey handles POST /surveys/:id/close
// Closing runs a final batch analysis and freezes the aggregate snapshot.
func (h *SurveyHandler) CloseSurvey(w http.ResponseWriter, r *http.Request) {
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
	err := h.db.QueryRow("SELECT status FROM survey WHERE id = $1", surveyID).Scan(&status)
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
		middleware.ErrorResponse(w, http.StatusConflict, "Survey is not open")
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
		slog.Error("final batch analysis failed", "survey_id", surveyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to analyze survey")
		return
	}

	snapshotID := uuid.NewString()
	if err := h.store.SaveAggregateSnapshot(r.Context(), snapshotID, report.Aggregate); err != nil {
		slog.Error("failed to save aggregate snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save results")
		return
	}

	closedAt := time.Now()
	_, err = h.db.Exec(`
		UPDATE survey SET status = $1, closed_at = $2, final_snapshot_id = $3 WHERE id = $4
	`, models.StatusClosed, closedAt, snapshotID, surveyID)
	if err != nil {
		slog.Error("failed to close survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close survey")
		return
	}

	slog.Info("survey closed", "survey_id", surveyID,
		"respondents", report.Aggregate.RespondentCount,
		"sentiment_failures", len(report.SentimentFailures))

	middleware.JSONResponse(w, http.StatusOK, models.CloseSurveyResponse{
		ClosedAt:  closedAt,
		Aggregate: report.Aggregate,
	})
}
