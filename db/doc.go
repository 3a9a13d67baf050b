// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema creation.

Two dialects are supported, selected by the DATABASE_TYPE config: postgres
(lib/pq) for deployments and sqlite (modernc.org/sqlite) for local runs.
Both schemas are idempotent (IF NOT EXISTS) and structurally identical:

  - survey: metadata and lifecycle state (draft -> open -> closed)
  - question: prompts with their JTBD force tag
  - respondent_claim: display name, token, finalization marker
  - response: one answer per respondent per question
  - force_score_cache: best-effort cache of batch scoring output
  - aggregate_snapshot: frozen organization aggregate at survey close

Cache and snapshot tables hold derived data only; the response rows are
always the source of truth for recomputation.
*/
package db
