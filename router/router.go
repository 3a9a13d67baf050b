// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/readiness-pulse/cliparse"
	"github.com/danielhkuo/readiness-pulse/handlers"
	"github.com/danielhkuo/readiness-pulse/middleware"
	"github.com/danielhkuo/readiness-pulse/sentiment"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, analyzer sentiment.Analyzer) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	surveyHandler := handlers.NewSurveyHandler(db, cfg, analyzer)
	responseHandler := handlers.NewResponseHandler(db, cfg)
	scoresHandler := handlers.NewScoresHandler(db, cfg)
	aggregateHandler := handlers.NewAggregateHandler(db, cfg, analyzer)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Survey lifecycle (admin operations)
	mux.HandleFunc("POST /surveys", middleware.WithLogging(surveyHandler.CreateSurvey))
	mux.HandleFunc("POST /surveys/{id}/questions", middleware.WithLogging(surveyHandler.AddQuestion))
	mux.HandleFunc("GET /surveys/{id}/coverage", middleware.WithLogging(surveyHandler.GetCoverage))
	mux.HandleFunc("POST /surveys/{id}/publish", middleware.WithLogging(surveyHandler.PublishSurvey))
	mux.HandleFunc("POST /surveys/{id}/close", middleware.WithLogging(surveyHandler.CloseSurvey))

	// Results and analysis (admin operations)
	mux.HandleFunc("GET /surveys/{id}/aggregate", middleware.WithLogging(aggregateHandler.GetAggregate))
	mux.HandleFunc("POST /surveys/{id}/analyze", middleware.WithLogging(aggregateHandler.Analyze))
	mux.HandleFunc("GET /surveys/{id}/summary", middleware.WithLogging(aggregateHandler.GetSummary))

	// Respondent operations (public, token-gated)
	mux.HandleFunc("POST /s/{slug}/respondents", middleware.WithLogging(responseHandler.ClaimRespondent))
	mux.HandleFunc("POST /s/{slug}/responses", middleware.WithLogging(responseHandler.SubmitResponse))
	mux.HandleFunc("POST /s/{slug}/finalize", middleware.WithLogging(responseHandler.FinalizeSession))
	mux.HandleFunc("GET /s/{slug}/my-scores", middleware.WithLogging(scoresHandler.GetMyScores))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("readiness-pulse API v1"))
	})

	return mux
}
