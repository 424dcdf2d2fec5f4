// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Logging

WithLogging wraps handlers with structured request logging via log/slog.
Every request is tagged with a generated uuid, returned to the client in
the X-Request-ID header and present on both the start and completion log
lines.

# JSON Helpers

  - JSONResponse: write a JSON body with a status code
  - ErrorResponse: write a models.ErrorResponse
  - ParseJSONBody: decode a request body into a struct

# CORS

CORS allows the configured frontend origin (and only that origin) to
call the API with credentials, and answers preflight requests. The
X-Admin-Secret header is allowed so the web frontend can drive admin
operations.
*/
package middleware
