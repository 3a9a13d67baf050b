// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Readiness Pulse API server.

Readiness Pulse is an organizational AI-readiness survey service built on
the Jobs-to-be-Done forces framework. Questions are tagged with one of five
forces (demographic, pain_of_old, pull_of_new, anchors_to_old,
anxiety_of_new); free-text answers are scored for quality, rolled up into
per-respondent force strengths, and aggregated into an organization-level
readiness picture with outlier detection.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=pulse.db go run main.go

Or with flags:

	go run main.go -p 3418 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - SURVEY_SLUG_SALT (--slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3418)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - SENTIMENT_API_URL (--sentiment-url): Sentiment service endpoint; when
    empty the sentiment signal is disabled and scoring falls back to the
    neutral default
  - SENTIMENT_API_KEY (--sentiment-key): Bearer token for the service
  - Scoring tunables: --coverage-threshold, --min-words, --short-penalty,
    --base-interval, --outlier-sds, --sentiment-weight, --batch-concurrency

A .env file in the working directory is loaded at startup; real environment
variables take precedence.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (surveys, responses, scores, aggregate)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - scoring: Pure force-scoring engine (quality, coverage, aggregation)
  - sentiment: HTTP client for the optional sentiment service
  - batch: Concurrent whole-survey analysis
  - store: Database reads/writes for the scoring pipeline
  - auth: Token generation and validation
  - db: Schema creation for both dialects
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
