// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the readiness-pulse API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, analyzer)

# Endpoints

Health:

	GET /health

Survey lifecycle (admin, requires X-Admin-Key):

	POST /surveys                 - Create survey
	POST /surveys/{id}/questions  - Add question
	GET  /surveys/{id}/coverage   - Force coverage report
	POST /surveys/{id}/publish    - Open for responses
	POST /surveys/{id}/close      - Run final analysis, freeze results

Results and analysis (admin, requires X-Admin-Key):

	GET  /surveys/{id}/aggregate - Organization aggregate
	POST /surveys/{id}/analyze   - Full batch analysis with sentiment
	GET  /surveys/{id}/summary   - Dashboard counts

Respondent operations (public, via share slug; writes require
X-Respondent-Token):

	POST /s/{slug}/respondents - Claim a display name
	POST /s/{slug}/responses   - Submit/update an answer
	POST /s/{slug}/finalize    - Lock the session
	GET  /s/{slug}/my-scores   - Per-respondent force scores

# Handler Initialization

The router creates handler instances with dependency injection:

	surveyHandler := handlers.NewSurveyHandler(db, cfg, analyzer)
	responseHandler := handlers.NewResponseHandler(db, cfg)
	scoresHandler := handlers.NewScoresHandler(db, cfg)
	aggregateHandler := handlers.NewAggregateHandler(db, cfg, analyzer)

All handlers receive the database connection and configuration; the
handlers that run batch analyses also receive the sentiment analyzer
(nil disables the signal).
*/
package router
