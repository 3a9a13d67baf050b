// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

// Params holds the scoring tunables. The source research gives example
// numbers rather than fixed law, so everything here is configuration.
type Params struct {
	// CoverageThreshold is the minimum question count per non-demographic
	// force before ValidateCoverage emits a low-coverage warning.
	CoverageThreshold int

	// MinWordCount is the word count under which an answer takes the
	// short-answer penalty.
	MinWordCount int

	// ShortAnswerPenalty multiplies the quality of answers under
	// MinWordCount. Short answers are penalized, never dropped.
	ShortAnswerPenalty float64

	// BaseInterval is the confidence-interval width (0-100 scale) for a
	// single-response force; the interval shrinks with sqrt(n).
	BaseInterval float64

	// OutlierSDs is the distance from the force mean, in sample standard
	// deviations, beyond which a respondent's score is flagged.
	OutlierSDs float64

	// SentimentWeight bounds how much the optional sentiment signal can
	// move a response's quality. Keeps an LLM outage or a wrong call from
	// ever dominating a score.
	SentimentWeight float64
}

// DefaultParams returns the standard tunables.
func DefaultParams() Params {
	return Params{
		CoverageThreshold:  2,
		MinWordCount:       10,
		ShortAnswerPenalty: 0.5,
		BaseInterval:       20.0,
		OutlierSDs:         2.0,
		SentimentWeight:    0.1,
	}
}
