// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the scoring pipeline's data access layer.

Reads (FetchQuestions, FetchResponses, FetchRespondentResponses) deliver
immutable snapshots to the pure scoring functions. Writes cover only derived
data: the per-respondent force score cache and frozen aggregate snapshots.
Raw responses are written by the handlers, never by this package, and remain
the single source of truth - every cached score can be recomputed from them.
*/
package store
