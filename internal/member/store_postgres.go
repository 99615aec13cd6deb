// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package member

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dangkhoa/meshly/internal/platform/database/schema"
	"github.com/dangkhoa/meshly/internal/platform/dberr"
)

// Column list shared by every SELECT against members.account.
var accountColumns = strings.Join(schema.MemberAccount.Columns(), ", ")

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the member Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// scanPerson hydrates a Person from a single row in column order.
func scanPerson(row pgx.Row) (*Person, error) {
	person := &Person{}
	err := row.Scan(
		&person.ID,
		&person.Email,
		&person.Name,
		&person.Slug,
		&person.Description,
		&person.EncryptedPassword,
		&person.RememberToken,
		&person.RememberTokenExpiresAt,
		&person.Admin,
		&person.Deactivated,
		&person.EmailVerified,
		&person.ForumCommentCount,
		&person.BlogCommentCount,
		&person.WallCommentCount,
		&person.LastLoggedInAt,
		&person.CreatedAt,
		&person.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return person, nil
}

/*
Create persists a new member record into the members.account table.

Description: Deep-persists account metadata, ensuring timestamps are
initialized if not provided. Counters start at zero.

Parameters:
  - context: context.Context
  - person: *Person (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, person *Person) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		schema.MemberAccount.Table, accountColumns)

	now := time.Now()
	if person.CreatedAt.IsZero() {
		person.CreatedAt = now
	}
	person.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		person.ID,
		person.Email,
		person.Name,
		person.Slug,
		person.Description,
		person.EncryptedPassword,
		person.RememberToken,
		person.RememberTokenExpiresAt,
		person.Admin,
		person.Deactivated,
		person.EmailVerified,
		person.ForumCommentCount,
		person.BlogCommentCount,
		person.WallCommentCount,
		person.LastLoggedInAt,
		person.CreatedAt,
		person.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_member_repo_create_failed: %w", err), "Member")
	}

	return nil
}

/*
FindByID retrieves a member record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Person: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns, schema.MemberAccount.Table, schema.MemberAccount.ID)

	person, err := scanPerson(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_member_repo_find_by_id_failed: %w", err), "Member")
	}

	return person, nil
}

/*
FindByEmail retrieves a member record by their unique normalized email.

Parameters:
  - context: context.Context
  - email: string (already normalized)

Returns:
  - *Person: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns, schema.MemberAccount.Table, schema.MemberAccount.Email)

	person, err := scanPerson(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_member_repo_find_by_email_failed: %w", err), "Member")
	}

	return person, nil
}

/*
FindByRememberToken retrieves a member by their stored remember token digest.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *Person: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByRememberToken(context context.Context, token string) (*Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns, schema.MemberAccount.Table, schema.MemberAccount.RememberToken)

	person, err := scanPerson(repository.pool.QueryRow(context, query, token))
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_member_repo_find_by_remember_token_failed: %w", err), "Member")
	}

	return person, nil
}

/*
UpdateProfile persists changes to a member's mutable profile fields.

Description: Synchronizes name, slug, and description with the database,
refreshing the updatedat timestamp.

Parameters:
  - context: context.Context
  - person: *Person

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) UpdateProfile(context context.Context, person *Person) error {
	table := schema.MemberAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1`,
		table.Table, table.Name, table.Slug, table.Description, table.UpdatedAt, table.ID)

	person.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		person.ID,
		person.Name,
		person.Slug,
		person.Description,
		person.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_member_repo_update_profile_failed: %w", err), "Member")
	}

	return nil
}

/*
SetDeactivated flips the deactivation flag for a member.

Parameters:
  - context: context.Context
  - id: string
  - deactivated: bool

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) SetDeactivated(context context.Context, id string, deactivated bool) error {
	table := schema.MemberAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		table.Table, table.Deactivated, table.UpdatedAt, table.ID)

	_, err := repository.pool.Exec(context, query, id, deactivated, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_member_repo_set_deactivated_failed: %w", err)
	}
	return nil
}

/*
MarkEmailVerified updates the member's status to emailverified = true.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Database errors
*/
func (repository *PostgresRepository) MarkEmailVerified(context context.Context, id string) error {
	table := schema.MemberAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = $2 WHERE %s = $1`,
		table.Table, table.EmailVerified, table.UpdatedAt, table.ID)

	_, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_member_repo_mark_verified_failed: %w", err)
	}
	return nil
}

/*
UpdateEncryptedPassword overwrites only the credential ciphertext.

Description: Trusted single-column write — intentionally does not touch any
profile field so it cannot fail on unrelated constraints.

Parameters:
  - context: context.Context
  - id: string
  - ciphertext: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) UpdateEncryptedPassword(context context.Context, id string, ciphertext string) error {
	table := schema.MemberAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		table.Table, table.EncryptedPassword, table.UpdatedAt, table.ID)

	_, err := repository.pool.Exec(context, query, id, ciphertext, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_member_repo_update_password_failed: %w", err)
	}
	return nil
}

/*
UpdateRememberToken sets or clears the remember-token pair atomically.

Description: Trusted single-row write covering both token columns, keeping
the both-null-or-both-set invariant.

Parameters:
  - context: context.Context
  - id: string
  - token: *string
  - expiresAt: *time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) UpdateRememberToken(context context.Context, id string, token *string, expiresAt *time.Time) error {
	table := schema.MemberAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		table.Table, table.RememberToken, table.RememberTokenAt, table.ID)

	_, err := repository.pool.Exec(context, query, id, token, expiresAt)
	if err != nil {
		return fmt.Errorf("postgres_member_repo_update_remember_token_failed: %w", err)
	}
	return nil
}

/*
TouchLastLogin stamps the lastloggedinat column.

Parameters:
  - context: context.Context
  - id: string
  - at: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) TouchLastLogin(context context.Context, id string, at time.Time) error {
	table := schema.MemberAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		table.Table, table.LastLoggedInAt, table.ID)

	_, err := repository.pool.Exec(context, query, id, at)
	if err != nil {
		return fmt.Errorf("postgres_member_repo_touch_last_login_failed: %w", err)
	}
	return nil
}

/*
CountActiveAdmins counts non-deactivated admins system-wide.

Parameters:
  - context: context.Context

Returns:
  - int: Admin count
  - error: Execution errors
*/
func (repository *PostgresRepository) CountActiveAdmins(context context.Context) (int, error) {
	table := schema.MemberAccount
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = TRUE AND %s = FALSE`,
		table.Table, table.Admin, table.Deactivated)

	var count int
	if err := repository.pool.QueryRow(context, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_member_repo_count_admins_failed: %w", err)
	}

	return count, nil
}
