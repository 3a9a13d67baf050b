// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application for the given
// dialect ("postgres" or "sqlite"). Safe to call multiple times - uses
// IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	var schema string
	switch dialect {
	case "postgres":
		schema = postgresSchema
	case "sqlite":
		schema = sqliteSchema
	default:
		return fmt.Errorf("unknown database dialect %q", dialect)
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const postgresSchema = `
-- Surveys
CREATE TABLE IF NOT EXISTS survey (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    organization TEXT NOT NULL,
    creator_name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'open', 'closed')),
    share_slug TEXT UNIQUE,
    closed_at TIMESTAMP,
    final_snapshot_id TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_survey_share_slug ON survey(share_slug);
CREATE INDEX IF NOT EXISTS idx_survey_status ON survey(status);

-- Questions (force is validated at the API layer; demographic prompts
-- carry the 'demographic' force)
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    context TEXT,
    force TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_question_survey_id ON question(survey_id);

-- Respondent claims
CREATE TABLE IF NOT EXISTS respondent_claim (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    display_name TEXT NOT NULL,
    token TEXT NOT NULL UNIQUE,
    ip_hash TEXT,
    finalized_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (survey_id, display_name)
);

CREATE INDEX IF NOT EXISTS idx_respondent_claim_survey_id ON respondent_claim(survey_id);
CREATE INDEX IF NOT EXISTS idx_respondent_claim_token ON respondent_claim(token);

-- Responses (one per respondent per question; editable until finalized)
CREATE TABLE IF NOT EXISTS response (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    respondent_id TEXT NOT NULL REFERENCES respondent_claim(id) ON DELETE CASCADE,
    answer TEXT NOT NULL,
    confidence REAL CHECK (confidence >= 0 AND confidence <= 100),
    input_method TEXT,
    transcription_confidence REAL CHECK (transcription_confidence >= 0 AND transcription_confidence <= 1),
    submitted_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (question_id, respondent_id)
);

CREATE INDEX IF NOT EXISTS idx_response_survey_id ON response(survey_id);
CREATE INDEX IF NOT EXISTS idx_response_respondent_id ON response(respondent_id);

-- Force score cache (best-effort; responses stay the source of truth)
CREATE TABLE IF NOT EXISTS force_score_cache (
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    respondent_id TEXT NOT NULL REFERENCES respondent_claim(id) ON DELETE CASCADE,
    computed_at TIMESTAMP NOT NULL DEFAULT NOW(),
    payload JSONB NOT NULL,
    PRIMARY KEY (survey_id, respondent_id)
);

-- Aggregate snapshots
CREATE TABLE IF NOT EXISTS aggregate_snapshot (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    computed_at TIMESTAMP NOT NULL DEFAULT NOW(),
    payload JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_aggregate_snapshot_survey_id ON aggregate_snapshot(survey_id);
`

// sqliteSchema mirrors the postgres schema with sqlite-compatible defaults
// and plain TEXT payloads. Timestamps are written explicitly by the
// handlers, so the CURRENT_TIMESTAMP defaults rarely fire.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS survey (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    organization TEXT NOT NULL,
    creator_name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'open', 'closed')),
    share_slug TEXT UNIQUE,
    closed_at TIMESTAMP,
    final_snapshot_id TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_survey_share_slug ON survey(share_slug);
CREATE INDEX IF NOT EXISTS idx_survey_status ON survey(status);

CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    context TEXT,
    force TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_question_survey_id ON question(survey_id);

CREATE TABLE IF NOT EXISTS respondent_claim (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    display_name TEXT NOT NULL,
    token TEXT NOT NULL UNIQUE,
    ip_hash TEXT,
    finalized_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (survey_id, display_name)
);

CREATE INDEX IF NOT EXISTS idx_respondent_claim_survey_id ON respondent_claim(survey_id);
CREATE INDEX IF NOT EXISTS idx_respondent_claim_token ON respondent_claim(token);

CREATE TABLE IF NOT EXISTS response (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    respondent_id TEXT NOT NULL REFERENCES respondent_claim(id) ON DELETE CASCADE,
    answer TEXT NOT NULL,
    confidence REAL CHECK (confidence >= 0 AND confidence <= 100),
    input_method TEXT,
    transcription_confidence REAL CHECK (transcription_confidence >= 0 AND transcription_confidence <= 1),
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (question_id, respondent_id)
);

CREATE INDEX IF NOT EXISTS idx_response_survey_id ON response(survey_id);
CREATE INDEX IF NOT EXISTS idx_response_respondent_id ON response(respondent_id);

CREATE TABLE IF NOT EXISTS force_score_cache (
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    respondent_id TEXT NOT NULL REFERENCES respondent_claim(id) ON DELETE CASCADE,
    computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    payload TEXT NOT NULL,
    PRIMARY KEY (survey_id, respondent_id)
);

CREATE TABLE IF NOT EXISTS aggregate_snapshot (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_aggregate_snapshot_survey_id ON aggregate_snapshot(survey_id);
`
