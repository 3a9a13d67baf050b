// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/readiness-pulse/models"
	"github.com/danielhkuo/readiness-pulse/scoring"
	"github.com/danielhkuo/readiness-pulse/sentiment"
	"github.com/danielhkuo/readiness-pulse/store"
)

// defaultSentimentTimeout bounds one sentiment lookup. A slow LLM call can
// delay one response's signal, never the whole batch.
const defaultSentimentTimeout = 15 * time.Second

// Runner executes a full survey analysis: fetch once, score every
// respondent concurrently, aggregate.
type Runner struct {
	Store    *store.Store
	Analyzer sentiment.Analyzer // nil disables the sentiment signal
	Params   scoring.Params

	// Concurrency bounds the number of respondents scored in parallel.
	// Values < 1 mean unbounded.
	Concurrency int

	// SentimentTimeout overrides defaultSentimentTimeout when > 0.
	SentimentTimeout time.Duration
}

// SentimentFailure records one response whose sentiment lookup failed. The
// response was still scored, with the neutral fallback.
type SentimentFailure struct {
	RespondentID string `json:"respondent_id"`
	ResponseID   string `json:"response_id"`
	Reason       string `json:"reason"`
}

// Report is the output of one batch run.
type Report struct {
	SurveyID          string                       `json:"survey_id"`
	Scorecards        []models.Scorecard           `json:"scorecards"`
	Aggregate         models.OrganizationAggregate `json:"aggregate"`
	SentimentFailures []SentimentFailure           `json:"sentiment_failures,omitempty"`
	ComputedAt        time.Time                    `json:"computed_at"`
}

// Run analyzes every respondent of a survey. Respondent computations are
// independent, so they fan out across a bounded worker group; each failure
// is recorded in the report and never aborts a sibling. The only hard error
// besides fetch failures is scoring.ErrNoQuestions.
func (r *Runner) Run(ctx context.Context, surveyID string) (*Report, error) {
	questions, err := r.Store.FetchQuestions(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("fetching questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, scoring.ErrNoQuestions
	}

	responses, err := r.Store.FetchResponses(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("fetching responses: %w", err)
	}

	byRespondent := make(map[string][]models.Response)
	for _, resp := range responses {
		byRespondent[resp.RespondentID] = append(byRespondent[resp.RespondentID], resp)
	}

	report := &Report{
		SurveyID:   surveyID,
		ComputedAt: time.Now().UTC(),
	}

	var mu sync.Mutex
	var g errgroup.Group
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}

	for respondentID, respondentResponses := range byRespondent {
		g.Go(func() error {
			sentiments, failures := r.analyzeResponses(ctx, respondentID, respondentResponses)

			card, err := scoring.ComputeForceScores(respondentID, respondentResponses, questions, r.Params, sentiments)
			if err != nil {
				// Unreachable with a non-empty question set; recorded
				// rather than propagated so siblings keep running.
				slog.Error("scoring failed", "survey_id", surveyID, "respondent_id", respondentID, "error", err)
				return nil
			}

			if err := r.Store.StoreForceScores(ctx, surveyID, card); err != nil {
				slog.Warn("force score cache write failed", "respondent_id", respondentID, "error", err)
			}

			mu.Lock()
			report.Scorecards = append(report.Scorecards, card)
			report.SentimentFailures = append(report.SentimentFailures, failures...)
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only orders the joins.
	_ = g.Wait()

	// Map iteration order is random; keep the report stable.
	sort.Slice(report.Scorecards, func(i, j int) bool {
		return report.Scorecards[i].RespondentID < report.Scorecards[j].RespondentID
	})
	sort.Slice(report.SentimentFailures, func(i, j int) bool {
		return report.SentimentFailures[i].ResponseID < report.SentimentFailures[j].ResponseID
	})

	report.Aggregate = scoring.Aggregate(surveyID, report.Scorecards, r.Params)

	return report, nil
}

// analyzeResponses collects the sentiment signal for one respondent's
// responses. Every failure degrades that single response to the neutral
// fallback and is reported individually.
func (r *Runner) analyzeResponses(ctx context.Context, respondentID string, responses []models.Response) (map[string]*scoring.Sentiment, []SentimentFailure) {
	if r.Analyzer == nil {
		return nil, nil
	}

	timeout := r.SentimentTimeout
	if timeout <= 0 {
		timeout = defaultSentimentTimeout
	}

	sentiments := make(map[string]*scoring.Sentiment, len(responses))
	var failures []SentimentFailure

	for _, resp := range responses {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err := r.Analyzer.Analyze(callCtx, resp.Answer)
		cancel()

		if err != nil {
			slog.Warn("sentiment lookup failed", "response_id", resp.ID, "error", err)
			failures = append(failures, SentimentFailure{
				RespondentID: respondentID,
				ResponseID:   resp.ID,
				Reason:       err.Error(),
			})
			continue
		}
		sentiments[resp.ID] = &scoring.Sentiment{
			Score:      result.Score,
			Confidence: result.Confidence,
		}
	}

	return sentiments, failures
}
