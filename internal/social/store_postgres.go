// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dangkhoa/meshly/internal/member"
	"github.com/dangkhoa/meshly/internal/platform/apperr"
	"github.com/dangkhoa/meshly/internal/platform/database/schema"
	"github.com/dangkhoa/meshly/internal/platform/dberr"
	"github.com/dangkhoa/meshly/pkg/uuid"
)

var connectionColumns = strings.Join(schema.MemberConnection.Columns(), ", ")

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the social Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanConnection(row pgx.Row) (*Connection, error) {
	connection := &Connection{}
	err := row.Scan(
		&connection.ID,
		&connection.PersonID,
		&connection.ContactID,
		&connection.Status,
		&connection.CreatedAt,
		&connection.AcceptedAt,
	)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func scanPersons(rows pgx.Rows) ([]member.Person, error) {
	defer rows.Close()

	persons := []member.Person{}
	for rows.Next() {
		var person member.Person
		err := rows.Scan(
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
		persons = append(persons, person)
	}

	return persons, rows.Err()
}

/*
Get retrieves the directed edge from personID to contactID.

Parameters:
  - context: context.Context
  - personID: string
  - contactID: string

Returns:
  - *Connection: The edge
  - error: apperr.NotFound or retrieval failures
*/
func (repository *PostgresRepository) Get(context context.Context, personID string, contactID string) (*Connection, error) {
	table := schema.MemberConnection
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		connectionColumns, table.Table, table.PersonID, table.ContactID)

	connection, err := scanConnection(repository.pool.QueryRow(context, query, personID, contactID))
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_social_repo_get_failed: %w", err), "Connection")
	}

	return connection, nil
}

/*
Insert persists a new directed edge.

Parameters:
  - context: context.Context
  - connection: *Connection

Returns:
  - error: apperr.Conflict on duplicate pairs, or persistence failures
*/
func (repository *PostgresRepository) Insert(context context.Context, connection *Connection) error {
	table := schema.MemberConnection
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		table.Table, connectionColumns)

	_, err := repository.pool.Exec(context, query,
		connection.ID,
		connection.PersonID,
		connection.ContactID,
		connection.Status,
		connection.CreatedAt,
		connection.AcceptedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_social_repo_insert_failed: %w", err), "Connection")
	}
	return nil
}

/*
Accept flips a pending request to accepted and writes the reciprocal edge.

Description: Runs in one transaction. The reciprocal edge upserts on the
(personid, contactid) unique constraint so re-accepting after a partial
failure converges instead of erroring.

Parameters:
  - context: context.Context
  - requesterID: string
  - accepterID: string
  - at: time.Time

Returns:
  - error: apperr.NotFound when no pending request exists, or transaction failures
*/
func (repository *PostgresRepository) Accept(context context.Context, requesterID string, accepterID string, at time.Time) error {
	table := schema.MemberConnection

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_social_repo_accept_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	updateQuery := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = $4
		WHERE %s = $1 AND %s = $2 AND %s = $5`,
		table.Table, table.Status, table.AcceptedAt,
		table.PersonID, table.ContactID, table.Status)

	tag, err := transaction.Exec(context, updateQuery,
		requesterID, accepterID, StatusAccepted, at, StatusRequested)
	if err != nil {
		return fmt.Errorf("postgres_social_repo_accept_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Connection request")
	}

	reciprocalQuery := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (%s, %s) DO UPDATE SET %s = $4, %s = $6`,
		table.Table, connectionColumns,
		table.PersonID, table.ContactID, table.Status, table.AcceptedAt)

	_, err = transaction.Exec(context, reciprocalQuery,
		uuid.New(), accepterID, requesterID, StatusAccepted, at, &at)
	if err != nil {
		return fmt.Errorf("postgres_social_repo_accept_reciprocal_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_social_repo_accept_commit_failed: %w", err)
	}
	return nil
}

/*
Reject marks a pending request as rejected.

Parameters:
  - context: context.Context
  - requesterID: string
  - accepterID: string

Returns:
  - error: apperr.NotFound when no pending request exists
*/
func (repository *PostgresRepository) Reject(context context.Context, requesterID string, accepterID string) error {
	table := schema.MemberConnection
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3
		WHERE %s = $1 AND %s = $2 AND %s = $4`,
		table.Table, table.Status, table.PersonID, table.ContactID, table.Status)

	tag, err := repository.pool.Exec(context, query,
		requesterID, accepterID, StatusRejected, StatusRequested)
	if err != nil {
		return fmt.Errorf("postgres_social_repo_reject_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Connection request")
	}
	return nil
}

// eligibilityClause filters account rows to active members. The $N parameter
// carries requireVerified.
func eligibilityClause(alias string, verifiedParam int) string {
	account := schema.MemberAccount
	return fmt.Sprintf(`%s.%s = FALSE AND (NOT $%d::bool OR %s.%s = TRUE)`,
		alias, account.Deactivated, verifiedParam, alias, account.EmailVerified)
}

/*
MutualContacts returns active members accepted by BOTH inputs.

Description: Accepted edges are symmetric, so scanning edges whose personid is
either input and grouping by contactid yields exactly two rows per shared
contact — the HAVING COUNT(*) = 2 filter is correct because (personid,
contactid) is unique.

Parameters:
  - context: context.Context
  - personAID: string
  - personBID: string
  - requireVerified: bool
  - limit: int
  - offset: int

Returns:
  - []member.Person: The shared contacts, name-ordered
  - int: Total matches before pagination
  - error: Retrieval failures
*/
func (repository *PostgresRepository) MutualContacts(context context.Context, personAID string, personBID string, requireVerified bool, limit, offset int) ([]member.Person, int, error) {
	account := schema.MemberAccount
	connection := schema.MemberConnection

	sharedSubquery := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s IN ($1, $2) AND %s NOT IN ($1, $2) AND %s = $3
		GROUP BY %s
		HAVING COUNT(*) = 2`,
		connection.ContactID, connection.Table,
		connection.PersonID, connection.ContactID, connection.Status,
		connection.ContactID)

	prefixedColumns := "a." + strings.Join(schema.MemberAccount.Columns(), ", a.")

	listQuery := fmt.Sprintf(`
		SELECT %s FROM %s a
		JOIN (%s) shared ON shared.%s = a.%s
		WHERE %s
		ORDER BY a.%s ASC
		LIMIT $5 OFFSET $6`,
		prefixedColumns, account.Table,
		sharedSubquery, connection.ContactID, account.ID,
		eligibilityClause("a", 4),
		account.Name)

	rows, err := repository.pool.Query(context, listQuery,
		personAID, personBID, StatusAccepted, requireVerified, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_mutual_failed: %w", err)
	}

	persons, err := scanPersons(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_mutual_failed: %w", err)
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s a
		JOIN (%s) shared ON shared.%s = a.%s
		WHERE %s`,
		account.Table,
		sharedSubquery, connection.ContactID, account.ID,
		eligibilityClause("a", 4))

	var total int
	err = repository.pool.QueryRow(context, countQuery,
		personAID, personBID, StatusAccepted, requireVerified).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_mutual_count_failed: %w", err)
	}

	return persons, total, nil
}

/*
ListActive returns active members, newest-first.

Parameters:
  - context: context.Context
  - requireVerified: bool
  - limit: int
  - offset: int

Returns:
  - []member.Person: Active members
  - int: Total matches before pagination
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListActive(context context.Context, requireVerified bool, limit, offset int) ([]member.Person, int, error) {
	account := schema.MemberAccount

	listQuery := fmt.Sprintf(`
		SELECT %s FROM %s a
		WHERE %s
		ORDER BY a.%s DESC
		LIMIT $2 OFFSET $3`,
		"a."+strings.Join(account.Columns(), ", a."), account.Table,
		eligibilityClause("a", 1),
		account.CreatedAt)

	rows, err := repository.pool.Query(context, listQuery, requireVerified, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_list_active_failed: %w", err)
	}

	persons, err := scanPersons(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_list_active_failed: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s a WHERE %s`,
		account.Table, eligibilityClause("a", 1))

	var total int
	if err := repository.pool.QueryRow(context, countQuery, requireVerified).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_list_active_count_failed: %w", err)
	}

	return persons, total, nil
}

/*
ListMostlyActive returns active members whose last login is at or after the
given instant.

Parameters:
  - context: context.Context
  - since: time.Time
  - requireVerified: bool
  - limit: int
  - offset: int

Returns:
  - []member.Person: Mostly active members, most recently seen first
  - int: Total matches before pagination
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListMostlyActive(context context.Context, since time.Time, requireVerified bool, limit, offset int) ([]member.Person, int, error) {
	account := schema.MemberAccount

	recencyClause := fmt.Sprintf(`a.%s IS NOT NULL AND a.%s >= $2`,
		account.LastLoggedInAt, account.LastLoggedInAt)

	listQuery := fmt.Sprintf(`
		SELECT %s FROM %s a
		WHERE %s AND %s
		ORDER BY a.%s DESC
		LIMIT $3 OFFSET $4`,
		"a."+strings.Join(account.Columns(), ", a."), account.Table,
		eligibilityClause("a", 1), recencyClause,
		account.LastLoggedInAt)

	rows, err := repository.pool.Query(context, listQuery, requireVerified, since, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_list_mostly_active_failed: %w", err)
	}

	persons, err := scanPersons(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_list_mostly_active_failed: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s a WHERE %s AND %s`,
		account.Table, eligibilityClause("a", 1), recencyClause)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, requireVerified, since).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_list_mostly_active_count_failed: %w", err)
	}

	return persons, total, nil
}
