// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import "github.com/danielhkuo/readiness-pulse/models"

// ValidateCoverage counts questions per force and flags each non-demographic
// force with fewer than Params.CoverageThreshold questions. The warnings are
// advisory for survey designers; they never block survey creation. Untagged
// or invalidly tagged non-demographic questions are listed separately.
//
// Returns ErrNoQuestions for an empty question set.
func ValidateCoverage(questions []models.Question, p Params) (models.CoverageReport, error) {
	report := models.CoverageReport{
		QuestionCount: len(questions),
		Counts:        make(map[models.Force]int, len(models.AllForces())),
	}

	if len(questions) == 0 {
		return report, ErrNoQuestions
	}

	for _, force := range models.AllForces() {
		report.Counts[force] = 0
	}

	for _, q := range questions {
		if !q.Force.Valid() {
			report.Untagged = append(report.Untagged, q.ID)
			continue
		}
		report.Counts[q.Force]++
	}

	for _, force := range models.AllForces() {
		if force == models.ForceDemographic {
			continue
		}
		if count := report.Counts[force]; count < p.CoverageThreshold {
			report.Warnings = append(report.Warnings, models.CoverageWarning{
				Force:     force,
				Count:     count,
				Threshold: p.CoverageThreshold,
			})
		}
	}

	return report, nil
}
