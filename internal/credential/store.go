// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package credential

import (
	"context"
	"time"
)

// VerificationTokenRepository stores short-lived email verification tokens.
//
// Tokens are opaque random strings mapped to a member ID. The store expires
// them on its own; Consume is single-use.
type VerificationTokenRepository interface {

	/*
		Save associates a verification token with a member for the given TTL.

		Parameters:
		  - context: context.Context
		  - token: string
		  - memberID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Save(context context.Context, token string, memberID string, ttl time.Duration) error

	/*
		Consume resolves a token to its member ID and deletes it atomically.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: The member ID the token was issued for
		  - error: ErrInvalidVerificationToken when unknown or expired
	*/
	Consume(context context.Context, token string) (string, error)
}
