// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package sentiment provides the optional LLM sentiment signal.

The analyzer is one input to the per-response quality weight and is treated
as unreliable by contract: requests carry a timeout, transient failures are
retried a bounded number of times with backoff, and any final failure leaves
the caller scoring with a neutral signal instead of aborting. A ForceScore
never depends on this service being up.

Client speaks plain JSON over HTTP so any hosted analyzer (or an httptest
stub) can stand behind it.
*/
package sentiment
