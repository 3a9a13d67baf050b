// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielhkuo/readiness-pulse/models"
)

// Store wraps the scoring pipeline's database reads and writes. Handlers
// keep their own lifecycle queries; everything the scoring engine consumes
// or caches goes through here.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FetchQuestions returns the full question set for a survey.
func (s *Store) FetchQuestions(ctx context.Context, surveyID string) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, survey_id, text, COALESCE(context, ''), force
		FROM question
		WHERE survey_id = $1
		ORDER BY id
	`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var force string
		if err := rows.Scan(&q.ID, &q.SurveyID, &q.Text, &q.Context, &force); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		q.Force = models.Force(force)
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// FetchResponses returns every response for a survey, all respondents.
func (s *Store) FetchResponses(ctx context.Context, surveyID string) ([]models.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, survey_id, question_id, respondent_id, answer,
		       confidence, COALESCE(input_method, ''), transcription_confidence, submitted_at
		FROM response
		WHERE survey_id = $1
		ORDER BY respondent_id, question_id
	`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	return scanResponses(rows)
}

// FetchRespondentResponses returns one respondent's responses for a survey.
func (s *Store) FetchRespondentResponses(ctx context.Context, surveyID, respondentID string) ([]models.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, survey_id, question_id, respondent_id, answer,
		       confidence, COALESCE(input_method, ''), transcription_confidence, submitted_at
		FROM response
		WHERE survey_id = $1 AND respondent_id = $2
		ORDER BY question_id
	`, surveyID, respondentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	return scanResponses(rows)
}

func scanResponses(rows *sql.Rows) ([]models.Response, error) {
	var responses []models.Response
	for rows.Next() {
		var r models.Response
		var confidence, transcription sql.NullFloat64
		if err := rows.Scan(
			&r.ID, &r.SurveyID, &r.QuestionID, &r.RespondentID, &r.Answer,
			&confidence, &r.InputMethod, &transcription, &r.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		if confidence.Valid {
			v := confidence.Float64
			r.Confidence = &v
		}
		if transcription.Valid {
			v := transcription.Float64
			r.TranscriptionConfidence = &v
		}
		responses = append(responses, r)
	}

	return responses, rows.Err()
}

// StoreForceScores upserts a respondent's scorecard into the cache table.
// The cache is advisory; losing a write only costs a recomputation.
func (s *Store) StoreForceScores(ctx context.Context, surveyID string, card models.Scorecard) error {
	payload, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to marshal scorecard: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO force_score_cache (survey_id, respondent_id, computed_at, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (survey_id, respondent_id)
		DO UPDATE SET computed_at = excluded.computed_at, payload = excluded.payload
	`, surveyID, card.RespondentID, time.Now(), payload)
	if err != nil {
		return fmt.Errorf("failed to cache force scores: %w", err)
	}

	return nil
}

// SaveAggregateSnapshot persists a frozen organization aggregate.
func (s *Store) SaveAggregateSnapshot(ctx context.Context, snapshotID string, agg models.OrganizationAggregate) error {
	payload, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("failed to marshal aggregate: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO aggregate_snapshot (id, survey_id, computed_at, payload)
		VALUES ($1, $2, $3, $4)
	`, snapshotID, agg.SurveyID, agg.ComputedAt, payload)
	if err != nil {
		return fmt.Errorf("failed to save aggregate snapshot: %w", err)
	}

	return nil
}

// FetchAggregateSnapshot loads a frozen aggregate by snapshot ID.
// Returns sql.ErrNoRows when the snapshot does not exist.
func (s *Store) FetchAggregateSnapshot(ctx context.Context, snapshotID string) (models.OrganizationAggregate, error) {
	var agg models.OrganizationAggregate
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM aggregate_snapshot WHERE id = $1
	`, snapshotID).Scan(&payload)
	if err != nil {
		return agg, err
	}

	if err := json.Unmarshal(payload, &agg); err != nil {
		return agg, fmt.Errorf("failed to parse aggregate snapshot: %w", err)
	}

	return agg, nil
}
