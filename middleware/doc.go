// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP cross-cutting helpers.

  - WithLogging: slog request/completion logging with duration
  - JSONResponse / ErrorResponse: JSON encoding with consistent error shape
  - ParseJSONBody: request body decoding
  - CORS: cross-origin headers for the dashboard, incl. the X-Admin-Key and
    X-Respondent-Token headers
  - GetClientIP: client IP extraction behind proxies
*/
package middleware
