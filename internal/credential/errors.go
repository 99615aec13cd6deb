// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package credential

import (
	"net/http"

	"github.com/dangkhoa/meshly/internal/platform/apperr"
)

// # Error Taxonomy
//
// Every authentication failure maps to exactly one sentinel below, so callers
// can branch with [errors.Is] and the HTTP layer can decide which distinctions
// are safe to reveal to clients.
var (
	// ErrKeyUnavailable signals the RSA key material could not be loaded or used.
	// Infrastructure fault, not a caller mistake.
	ErrKeyUnavailable = apperr.Coded("KEY_UNAVAILABLE", "Credential key unavailable", http.StatusInternalServerError)

	// ErrDecryptionFailure signals a stored ciphertext that cannot be decrypted
	// (corrupt record or key rotation gone wrong).
	ErrDecryptionFailure = apperr.Coded("DECRYPTION_FAILURE", "Stored credential could not be read", http.StatusUnauthorized)

	// ErrNoSuchAccount signals a login attempt against an unknown email.
	ErrNoSuchAccount = apperr.Coded("NO_SUCH_ACCOUNT", "No account for that email", http.StatusUnauthorized)

	// ErrWrongPassword signals a login attempt with an incorrect password.
	ErrWrongPassword = apperr.Coded("WRONG_PASSWORD", "Incorrect password", http.StatusUnauthorized)

	// ErrIncorrectCurrentPassword signals a password change whose "current
	// password" proof failed. Distinct from ErrWrongPassword: the caller is
	// already authenticated here, so telling them is safe.
	ErrIncorrectCurrentPassword = apperr.Coded("INCORRECT_CURRENT_PASSWORD", "Current password is incorrect", http.StatusBadRequest)

	// ErrConfirmationMismatch signals new password and confirmation differing.
	ErrConfirmationMismatch = apperr.Coded("CONFIRMATION_MISMATCH", "New password and confirmation do not match", http.StatusBadRequest)

	// ErrInvalidRememberToken signals a remember-token exchange with a token
	// that is unknown, cleared, or expired.
	ErrInvalidRememberToken = apperr.Coded("INVALID_REMEMBER_TOKEN", "Remember token is invalid or expired", http.StatusUnauthorized)

	// ErrInvalidVerificationToken signals an email verification attempt with an
	// unknown or expired token.
	ErrInvalidVerificationToken = apperr.Coded("INVALID_VERIFICATION_TOKEN", "Verification token is invalid or expired", http.StatusUnauthorized)

	// ErrEmailTaken signals a registration against an email already in use.
	ErrEmailTaken = apperr.Coded("EMAIL_TAKEN", "An account with that email already exists", http.StatusConflict)

	// ErrAccountDeactivated signals a login against a deactivated account.
	ErrAccountDeactivated = apperr.Coded("ACCOUNT_DEACTIVATED", "This account has been deactivated", http.StatusForbidden)

	// ErrEmailNotVerified signals a login against an unverified account while
	// the platform requires verification.
	ErrEmailNotVerified = apperr.Coded("EMAIL_NOT_VERIFIED", "Email address has not been verified", http.StatusForbidden)
)
