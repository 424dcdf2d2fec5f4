// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"errors"
	"net/http"
)

// ErrInvalidSecret is returned when an admin operation carries a wrong
// or missing secret.
var ErrInvalidSecret = errors.New("invalid admin secret")

// AdminSecretHeader is the header clients may use instead of a body
// field.
const AdminSecretHeader = "X-Admin-Secret"

// ValidateAdminSecret checks a presented secret against the configured
// one using a constant-time comparison. An empty configured secret
// disables the check entirely, which is the development default.
func ValidateAdminSecret(configured, presented string) error {
	if configured == "" {
		return nil
	}
	if !hmac.Equal([]byte(configured), []byte(presented)) {
		return ErrInvalidSecret
	}
	return nil
}

// RequireAdmin validates an admin request that may carry its secret in
// the X-Admin-Secret header or in a body field already parsed by the
// caller. The header wins when both are present.
func RequireAdmin(r *http.Request, configured, bodySecret string) error {
	presented := r.Header.Get(AdminSecretHeader)
	if presented == "" {
		presented = bodySecret
	}
	return ValidateAdminSecret(configured, presented)
}
