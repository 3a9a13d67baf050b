// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scoring implements the JTBD readiness computations.

The pipeline is stateless: Question and Response values go in, scores and
aggregates come out. Nothing here touches the database, holds module-level
mutable state, or calls external services; all inputs arrive as explicit
arguments so every function is unit-testable in isolation.

# Computations

  - ValidateCoverage: per-force question counts with low-coverage advisories
  - ResponseQuality: 0-1 informativeness weight for one response
  - ComputeForceScores: one respondent's responses -> one ForceScore per force
  - Aggregate: many respondents' scorecards -> organization-level view

# Degradation rules

Per-record problems (unknown question reference, malformed fields) exclude
that single record with a DataIntegrityWarning and the computation continues.
A force with zero valid responses is marked insufficient-data, never zero.
The only hard error is ErrNoQuestions.

All tunables (coverage threshold, word-count penalty, outlier multiplier,
interval base, sentiment weight) live in Params; see DefaultParams.
*/
package scoring
