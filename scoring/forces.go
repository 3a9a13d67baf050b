// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/danielhkuo/readiness-pulse/models"
)

// ErrNoQuestions is the only hard failure in the scoring pipeline: with zero
// questions there is nothing to group responses against. Every other shape of
// partial data degrades to warnings or insufficient-data markers.
var ErrNoQuestions = errors.New("survey has no questions")

// defaultConfidenceWeight is the weight used when a respondent gave no
// explicit confidence (neutral midpoint of the 0-100 scale).
const defaultConfidenceWeight = 50.0

// ComputeForceScores converts one respondent's responses into a ForceScore
// per force. Responses referencing unknown questions or carrying malformed
// fields are excluded individually with a DataIntegrityWarning; a force with
// zero valid responses is marked insufficient-data rather than defaulted to a
// number. The output always carries exactly one entry per force.
//
// Pure: identical input yields identical output.
func ComputeForceScores(respondentID string, responses []models.Response, questions []models.Question, p Params, sentiments map[string]*Sentiment) (models.Scorecard, error) {
	card := models.Scorecard{
		RespondentID: respondentID,
		Scores:       make(map[models.Force]models.ForceScore, len(models.AllForces())),
	}

	if len(questions) == 0 {
		return card, ErrNoQuestions
	}

	questionsByID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		questionsByID[q.ID] = q
	}

	type weighted struct {
		quality float64
		weight  float64
	}
	grouped := make(map[models.Force][]weighted)

	for _, resp := range responses {
		q, ok := questionsByID[resp.QuestionID]
		if !ok {
			card.Warnings = append(card.Warnings, models.DataIntegrityWarning{
				ResponseID: resp.ID,
				QuestionID: resp.QuestionID,
				Reason:     "response references unknown question",
			})
			continue
		}
		if reason := malformedReason(resp); reason != "" {
			card.Warnings = append(card.Warnings, models.DataIntegrityWarning{
				ResponseID: resp.ID,
				QuestionID: resp.QuestionID,
				Reason:     reason,
			})
			continue
		}

		force := q.Force
		if !force.Valid() {
			card.Warnings = append(card.Warnings, models.DataIntegrityWarning{
				ResponseID: resp.ID,
				QuestionID: resp.QuestionID,
				Reason:     fmt.Sprintf("question has invalid force %q", string(force)),
			})
			continue
		}

		weight := defaultConfidenceWeight
		if resp.Confidence != nil {
			weight = *resp.Confidence
		}
		grouped[force] = append(grouped[force], weighted{
			quality: ResponseQuality(resp, p, sentiments[resp.ID]),
			weight:  weight,
		})
	}

	for _, force := range models.AllForces() {
		group := grouped[force]
		if len(group) == 0 {
			card.Scores[force] = models.ForceScore{
				Force:            force,
				InsufficientData: true,
			}
			continue
		}

		var weightedSum, weightSum, plainSum float64
		for _, w := range group {
			weightedSum += w.quality * w.weight
			weightSum += w.weight
			plainSum += w.quality
		}

		// All-zero confidence degenerates the weighted mean; fall back to
		// the unweighted mean instead of dividing by zero.
		var raw float64
		if weightSum > 0 {
			raw = weightedSum / weightSum
		} else {
			raw = plainSum / float64(len(group))
		}

		strength := 1 + 4*raw
		card.Scores[force] = models.ForceScore{
			Force:         force,
			Strength:      strength,
			Normalized:    (strength - 1) / 4 * 100,
			Interval:      p.BaseInterval / math.Sqrt(float64(len(group))),
			ResponseCount: len(group),
		}
	}

	return card, nil
}

// malformedReason returns a non-empty reason when a response must be excluded
// from scoring. One bad record never aborts the respondent's computation.
func malformedReason(resp models.Response) string {
	if strings.TrimSpace(resp.Answer) == "" {
		return "empty answer"
	}
	if resp.Confidence != nil && (*resp.Confidence < 0 || *resp.Confidence > 100) {
		return fmt.Sprintf("confidence %.1f outside [0,100]", *resp.Confidence)
	}
	if resp.TranscriptionConfidence != nil && (*resp.TranscriptionConfidence < 0 || *resp.TranscriptionConfidence > 1) {
		return fmt.Sprintf("transcription confidence %.2f outside [0,1]", *resp.TranscriptionConfidence)
	}
	return ""
}
