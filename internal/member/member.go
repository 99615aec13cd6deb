// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

/*
Package member defines the Person identity record and profile management layer.

It holds the core domain entity shared by the credential, feed, and social
packages, together with the activity-classification rules that decide whether
a member shows up in directories and mutual-connection results.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
external dependencies and encapsulates all business rules related to member
identity and activity state.
*/
package member

import (
	"strings"
	"time"
)

// # Domain Entity

// Person represents a registered member of the Meshly platform.
//
// # Credential fields
//
// EncryptedPassword holds the base64 RSA ciphertext of the member's password.
// It is reversible by design (the platform supports decrypting it for the
// "verify current password" flow) and there is exactly one ciphertext per
// member at any time: password changes overwrite it, never append.
//
// RememberToken and RememberTokenExpiresAt travel together: both nil when no
// "remember me" session exists, both set while one does.
type Person struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`

	// Credential state. Explicitly omitted from JSON for security.
	EncryptedPassword      string     `json:"-"`
	RememberToken          *string    `json:"-"`
	RememberTokenExpiresAt *time.Time `json:"-"`

	// State flags. EmailVerified is tri-state: nil means no verification
	// decision has been made yet, which is distinct from false.
	Admin         bool  `json:"admin"`
	Deactivated   bool  `json:"deactivated"`
	EmailVerified *bool `json:"email_verified,omitempty"`

	// Denormalized counters maintained by other subsystems. Preserved
	// verbatim; nothing in this core recomputes them.
	ForumCommentCount int `json:"forum_comment_count"`
	BlogCommentCount  int `json:"blog_comment_count"`
	WallCommentCount  int `json:"wall_comment_count"`

	LastLoggedInAt *time.Time `json:"last_logged_in_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Profile is the public projection of a [Person], safe to return in
// directory listings and mutual-contact results. No email, no flags.
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`

	ForumCommentCount int `json:"forum_comment_count"`
	BlogCommentCount  int `json:"blog_comment_count"`
	WallCommentCount  int `json:"wall_comment_count"`

	CreatedAt time.Time `json:"created_at"`
}

// Profile returns the public projection of the member.
func (p Person) Profile() Profile {
	return Profile{
		ID:                p.ID,
		Name:              p.Name,
		Slug:              p.Slug,
		Description:       p.Description,
		ForumCommentCount: p.ForumCommentCount,
		BlogCommentCount:  p.BlogCommentCount,
		WallCommentCount:  p.WallCommentCount,
		CreatedAt:         p.CreatedAt,
	}
}

// # Identity Normalization

// NormalizeEmail lower-cases and trims an email address.
//
// Every lookup and uniqueness check operates on the normalized form, so two
// registrations differing only in case or surrounding whitespace collide.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// # Activity Classification

/*
IsActive reports whether the member counts as active.

A member is active when not deactivated and, if the platform requires email
verification, their email has been verified. When verification is not
required the EmailVerified flag is ignored entirely (nil and false both pass).

Parameters:
  - requireEmailVerification: The process-wide verification toggle.

Returns:
  - bool: Whether the member is active.
*/
func (p *Person) IsActive(requireEmailVerification bool) bool {
	if p.Deactivated {
		return false
	}
	if !requireEmailVerification {
		return true
	}
	return p.EmailVerified != nil && *p.EmailVerified
}

/*
IsMostlyActiveAt reports whether the member counts as "mostly active".

Mostly active means active (see [Person.IsActive]) AND logged in within
[MostlyActiveWindow] of the given instant. Members who never logged in are
excluded.

Parameters:
  - now: The reference instant (UTC).
  - requireEmailVerification: The process-wide verification toggle.

Returns:
  - bool: Whether the member is mostly active.
*/
func (p *Person) IsMostlyActiveAt(now time.Time, requireEmailVerification bool) bool {
	if !p.IsActive(requireEmailVerification) {
		return false
	}
	if p.LastLoggedInAt == nil {
		return false
	}
	return !p.LastLoggedInAt.Before(now.Add(-MostlyActiveWindow))
}

/*
RememberTokenValidAt reports whether the member's remember token is live.

The check is strictly greater-than: a token whose expiry equals "now" is
already invalid.

Parameters:
  - now: The reference instant (UTC).

Returns:
  - bool: Whether a non-expired remember token exists.
*/
func (p *Person) RememberTokenValidAt(now time.Time) bool {
	if p.RememberTokenExpiresAt == nil {
		return false
	}
	return now.Before(*p.RememberTokenExpiresAt)
}

// # Constraints

const (
	// NameMaxLen bounds the display name length.
	NameMaxLen = 50

	// DescriptionMaxLen bounds the free-text profile description.
	DescriptionMaxLen = 500

	// MostlyActiveWindow is the login-recency window for the "mostly
	// active" classification: last login within one month.
	MostlyActiveWindow = 30 * 24 * time.Hour
)

// # Field Identifiers

// Global field names for validation and identity mapping in the member domain.
const (
	FieldEmail           = "email"
	FieldName            = "name"
	FieldDescription     = "description"
	FieldPassword        = "password"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldConfirmPassword = "confirm_password"
	FieldToken           = "token"
	FieldMember          = "member"
)
