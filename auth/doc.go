// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package auth guards admin operations with a shared secret.
//
// Phase transitions (starting a ladder, closing nominations, closing a
// round) and destructive actions (clearing votes) require the secret
// configured via ADMIN_SECRET. Clients present it either in the
// X-Admin-Secret header or in an adminSecret body field; the header
// takes precedence. Comparison is constant time.
//
// When no secret is configured the check passes unconditionally. That
// is deliberate: local development and single-admin private deployments
// run without one.
package auth
