// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package batch runs whole-survey analyses.

A run fetches the survey's questions and responses once, then scores each
respondent in its own goroutine under a bounded errgroup - the computations
share no mutable state, so ordering between respondents is irrelevant.
Partial-failure isolation is the contract: a failed sentiment lookup
degrades one response to the neutral signal and lands in the report's
failure list; nothing a single respondent does can fail the batch. Cache
writes are best effort.
*/
package batch
