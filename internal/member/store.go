// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package member

import (
	"context"
	"time"
)

// # Member Data Access

// Repository defines the data access contract for member accounts.
//
// # Trusted writes
//
// The credential/token methods (UpdateEncryptedPassword, UpdateRememberToken,
// TouchLastLogin) update ONLY their own columns. They must never fail because
// an unrelated profile field would not pass full-record validation — a stale
// remember-token write would leave callers expecting a session that does not
// exist.
type Repository interface {

	/*
		FindByID returns the member with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Person: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Person, error)

	/*
		FindByEmail returns the member with the given normalized email.

		Callers must normalize first via [NormalizeEmail]; the lookup is exact.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Person: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Person, error)

	/*
		FindByRememberToken returns the member holding the given remember
		token. Expiry is NOT checked here; callers must consult
		[Person.RememberTokenValidAt].

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *Person: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	FindByRememberToken(context context.Context, token string) (*Person, error)

	/*
		Create persists a brand-new member account to the storage.

		Parameters:
		  - context: context.Context
		  - person: *Person

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, person *Person) error

	/*
		UpdateProfile persists changes to the mutable profile fields
		(name, slug, description).

		Parameters:
		  - context: context.Context
		  - person: *Person

		Returns:
		  - error: Persistence failures
	*/
	UpdateProfile(context context.Context, person *Person) error

	/*
		SetDeactivated flips the deactivation flag. Deactivation is a flag,
		not a delete: the row is never removed.

		Parameters:
		  - context: context.Context
		  - id: string
		  - deactivated: bool

		Returns:
		  - error: Persistence failures
	*/
	SetDeactivated(context context.Context, id string, deactivated bool) error

	/*
		MarkEmailVerified sets emailverified = true.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	MarkEmailVerified(context context.Context, id string) error

	/*
		UpdateEncryptedPassword overwrites the stored credential ciphertext.
		Trusted write: touches only the credential column.

		Parameters:
		  - context: context.Context
		  - id: string
		  - ciphertext: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateEncryptedPassword(context context.Context, id string, ciphertext string) error

	/*
		UpdateRememberToken sets or clears the remember token pair.
		Both arguments nil clears the session; both set establishes one.
		Trusted write: touches only the token columns.

		Parameters:
		  - context: context.Context
		  - id: string
		  - token: *string
		  - expiresAt: *time.Time

		Returns:
		  - error: Persistence failures
	*/
	UpdateRememberToken(context context.Context, id string, token *string, expiresAt *time.Time) error

	/*
		TouchLastLogin stamps lastloggedinat. Trusted write.

		Parameters:
		  - context: context.Context
		  - id: string
		  - at: time.Time

		Returns:
		  - error: Persistence failures
	*/
	TouchLastLogin(context context.Context, id string, at time.Time) error

	/*
		CountActiveAdmins returns the number of non-deactivated admins
		system-wide.

		Parameters:
		  - context: context.Context

		Returns:
		  - int: Admin count
		  - error: Database retrieval failures
	*/
	CountActiveAdmins(context context.Context) (int, error)
}
