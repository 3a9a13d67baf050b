// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/danielhkuo/readiness-pulse/models"
)

// Sentiment is an optional per-response signal from an external analyzer.
// Score is in [-1, 1], Confidence in [0, 1]. A nil *Sentiment means the
// analyzer was unavailable or not configured; quality falls back to the
// text-only signal.
type Sentiment struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Component weights for the quality signal. They sum to 1 so the
// pre-adjustment signal stays in [0, 1].
const (
	lengthWeight     = 0.4
	concreteWeight   = 0.3
	confidenceWeight = 0.3

	// fullLengthWords is the word count at which the length component
	// saturates.
	fullLengthWords = 40
)

var digitPattern = regexp.MustCompile(`[0-9]|[$€£%]`)

// ResponseQuality derives a 0-1 informativeness weight for one response.
// Deterministic given its inputs: word count, concreteness heuristics,
// the respondent's stated confidence (neutral 0.5 when absent), the
// transcription confidence for voice answers, and the optional sentiment
// signal as a bounded adjustment.
func ResponseQuality(resp models.Response, p Params, s *Sentiment) float64 {
	words := wordCount(resp.Answer)

	length := float64(words) / fullLengthWords
	if length > 1 {
		length = 1
	}

	concrete := 0.0
	if digitPattern.MatchString(resp.Answer) {
		concrete += 0.5
	}
	if hasNamedEntity(resp.Answer) {
		concrete += 0.5
	}

	confidence := 0.5
	if resp.Confidence != nil {
		confidence = clamp01(*resp.Confidence / 100)
	}

	q := lengthWeight*length + concreteWeight*concrete + confidenceWeight*confidence

	// Voice answers inherit transcription uncertainty: a transcript the
	// engine is only half sure of should not weigh like typed text.
	if resp.InputMethod == models.InputVoice && resp.TranscriptionConfidence != nil {
		q *= 0.5 + 0.5*clamp01(*resp.TranscriptionConfidence)
	}

	// Strong sentiment either way marks an informative answer; the
	// adjustment is bounded by SentimentWeight.
	if s != nil {
		score := s.Score
		if score > 1 {
			score = 1
		} else if score < -1 {
			score = -1
		}
		q += p.SentimentWeight * clamp01(s.Confidence) * math.Abs(score)
	}

	if words < p.MinWordCount {
		q *= p.ShortAnswerPenalty
	}

	return clamp01(q)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// hasNamedEntity reports whether the answer mentions a capitalized word
// beyond the first one. Crude, but deterministic and cheap.
func hasNamedEntity(s string) bool {
	fields := strings.Fields(s)
	for i, f := range fields {
		if i == 0 {
			continue
		}
		r := []rune(f)
		if len(r) >= 2 && r[0] >= 'A' && r[0] <= 'Z' && r[1] >= 'a' && r[1] <= 'z' {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
