// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/danielhkuo/readiness-pulse/models"
)

// Aggregate combines many respondents' scorecards into one organization-level
// view. Per force it computes the mean and sample standard deviation over
// respondents with a defined (non insufficient-data) score, and flags scores
// more than Params.OutlierSDs standard deviations from the mean. Outliers are
// reported, not discarded.
//
// The overall readiness score is the unweighted mean of the per-force
// normalized means; forces with zero defined scores are excluded from the
// average and listed in ExcludedForces so missing data never masquerades as
// zero. Respondents with zero defined forces are tolerated.
func Aggregate(surveyID string, scorecards []models.Scorecard, p Params) models.OrganizationAggregate {
	agg := models.OrganizationAggregate{
		SurveyID:        surveyID,
		Forces:          make(map[models.Force]models.ForceAggregate),
		RespondentCount: len(scorecards),
		ComputedAt:      time.Now().UTC(),
	}

	var readinessSum float64
	var readinessForces int

	for _, force := range models.AllForces() {
		type sample struct {
			respondentID string
			normalized   float64
		}
		var samples []sample
		for _, card := range scorecards {
			score, ok := card.Scores[force]
			if !ok || score.InsufficientData {
				continue
			}
			samples = append(samples, sample{card.RespondentID, score.Normalized})
		}

		if len(samples) == 0 {
			agg.ExcludedForces = append(agg.ExcludedForces, force)
			continue
		}

		// Stable output regardless of scorecard order.
		sort.Slice(samples, func(i, j int) bool {
			return samples[i].respondentID < samples[j].respondentID
		})

		var sum float64
		for _, s := range samples {
			sum += s.normalized
		}
		mean := sum / float64(len(samples))

		var sd float64
		if len(samples) > 1 {
			var sq float64
			for _, s := range samples {
				d := s.normalized - mean
				sq += d * d
			}
			sd = math.Sqrt(sq / float64(len(samples)-1))
		}

		fa := models.ForceAggregate{
			Force:           force,
			Mean:            mean,
			StdDev:          sd,
			RespondentCount: len(samples),
		}

		if len(samples) >= 2 && sd > 0 {
			for _, s := range samples {
				deviations := math.Abs(s.normalized-mean) / sd
				if deviations > p.OutlierSDs {
					fa.Outliers = append(fa.Outliers, models.Outlier{
						RespondentID: s.respondentID,
						Normalized:   s.normalized,
						Deviations:   deviations,
					})
				}
			}
		}

		agg.Forces[force] = fa
		readinessSum += mean
		readinessForces++
	}

	if readinessForces > 0 {
		agg.Readiness = readinessSum / float64(readinessForces)
		agg.ReadinessDefined = true
	}

	return agg
}
