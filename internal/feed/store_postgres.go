// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dangkhoa/meshly/internal/platform/database/schema"
)

var activityColumns = strings.Join(schema.MemberActivity.Columns(), ", ")

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the feed Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanActivities(rows pgx.Rows) ([]Activity, error) {
	defer rows.Close()

	activities := []Activity{}
	for rows.Next() {
		var activity Activity
		err := rows.Scan(
			&activity.ID,
			&activity.PersonID,
			&activity.SubjectID,
			&activity.Payload,
			&activity.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}

	return activities, rows.Err()
}

/*
ListByPerson retrieves the newest activity entries owned by one member.

Parameters:
  - context: context.Context
  - personID: string
  - limit: int

Returns:
  - []Activity: Newest-first entries
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListByPerson(context context.Context, personID string, limit int) ([]Activity, error) {
	table := schema.MemberActivity
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1
		ORDER BY %s DESC, %s DESC
		LIMIT $2`,
		activityColumns, table.Table, table.PersonID, table.CreatedAt, table.ID)

	rows, err := repository.pool.Query(context, query, personID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_feed_repo_list_by_person_failed: %w", err)
	}

	activities, err := scanActivities(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres_feed_repo_list_by_person_failed: %w", err)
	}
	return activities, nil
}

/*
ListGlobal retrieves the newest activity entries platform-wide.

Parameters:
  - context: context.Context
  - limit: int

Returns:
  - []Activity: Newest-first entries
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListGlobal(context context.Context, limit int) ([]Activity, error) {
	table := schema.MemberActivity
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY %s DESC, %s DESC
		LIMIT $1`,
		activityColumns, table.Table, table.CreatedAt, table.ID)

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_feed_repo_list_global_failed: %w", err)
	}

	activities, err := scanActivities(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres_feed_repo_list_global_failed: %w", err)
	}
	return activities, nil
}

/*
Insert persists a new activity entry.

Parameters:
  - context: context.Context
  - activity: *Activity

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Insert(context context.Context, activity *Activity) error {
	table := schema.MemberActivity
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5)`,
		table.Table, activityColumns)

	_, err := repository.pool.Exec(context, query,
		activity.ID,
		activity.PersonID,
		activity.SubjectID,
		activity.Payload,
		activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_feed_repo_insert_failed: %w", err)
	}
	return nil
}
