// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment
variables. CLI flags win over environment variables.

Required settings:

  - DATABASE_URL (-d): connection string
  - ADMIN_KEY_SALT (--admin-salt): secret for admin key HMAC
  - SURVEY_SLUG_SALT (--slug-salt): secret for share slug generation

Optional settings:

  - PORT (-p): server port (default 3418)
  - DATABASE_TYPE (-t): sqlite or postgres (default sqlite)
  - SENTIMENT_API_URL / SENTIMENT_API_KEY: enable the LLM sentiment signal

Every scoring tunable (coverage threshold, short-answer penalty, outlier SD
multiplier, interval base, sentiment weight, batch concurrency) has a flag;
defaults come from scoring.DefaultParams. Config.ScoringParams bridges the
parsed values into the scoring package.
*/
package cliparse
