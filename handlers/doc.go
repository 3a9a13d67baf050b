// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers for the readiness-pulse API.

Handlers are grouped by resource:

  - SurveyHandler: survey lifecycle (create, questions, coverage, publish, close)
  - ResponseHandler: respondent claims, response submission, finalize
  - ScoresHandler: per-respondent force scores
  - AggregateHandler: organization aggregate, batch analysis, summary

Admin operations authenticate with the X-Admin-Key header (HMAC-derived from
the survey ID). Respondent operations authenticate with the X-Respondent-Token
header issued at claim time.
*/
package handlers
