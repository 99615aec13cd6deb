// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package feed

import (
	"context"
	"log/slog"
	"sort"

	"github.com/dangkhoa/meshly/internal/platform/clock"
	"github.com/dangkhoa/meshly/pkg/uuid"
)

// Config carries the feed composition knobs from the platform config.
type Config struct {
	// TargetSize is the number of entries a composed feed aims for.
	TargetSize int

	// PersonalLimit caps how many of the member's own entries are fetched.
	PersonalLimit int

	// GlobalCap caps the platform-wide top-up fetch. It exceeds TargetSize
	// because deduplication can discard global entries.
	GlobalCap int
}

// Service composes feeds and records new activity entries.
type Service struct {
	repository Repository
	clock      clock.Clock
	config     Config
	logger     *slog.Logger
}

// NewService creates a new feed Service.
func NewService(repository Repository, clk clock.Clock, config Config, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		clock:      clk,
		config:     config,
		logger:     logger,
	}
}

/*
Record appends one activity entry. It satisfies the member package's
ActivityRecorder contract.

Parameters:
  - context: context.Context
  - ownerID: string
  - subjectID: string
  - payload: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Record(context context.Context, ownerID string, subjectID string, payload string) error {
	activity := &Activity{
		ID:        uuid.New(),
		PersonID:  ownerID,
		SubjectID: subjectID,
		Payload:   payload,
		CreatedAt: service.clock.Now(),
	}

	if err := service.repository.Insert(context, activity); err != nil {
		return err
	}

	service.logger.Debug("activity recorded",
		slog.String("owner_id", ownerID),
		slog.String("activity_id", activity.ID))
	return nil
}

/*
Compose builds the activity feed for one member.

Description: When the member's own entries already fill the target window,
they are returned exactly as fetched — no global mixing, no re-sorting. Only
an underfull personal feed is topped up from the global stream: global entries
the member already owns are discarded (dedupe by ID), the remainder fills the
window, and only then is the merged result re-sorted newest-first with the ID
as a descending tie-break so equal timestamps order deterministically.

Parameters:
  - context: context.Context
  - personID: string

Returns:
  - []Activity: The feed entries, newest-first
  - error: Retrieval failures
*/
func (service *Service) Compose(context context.Context, personID string) ([]Activity, error) {
	personal, err := service.repository.ListByPerson(context, personID, service.config.PersonalLimit)
	if err != nil {
		return nil, err
	}

	if len(personal) >= service.config.TargetSize {
		return personal, nil
	}

	global, err := service.repository.ListGlobal(context, service.config.GlobalCap)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(personal))
	for _, activity := range personal {
		seen[activity.ID] = struct{}{}
	}

	merged := personal
	for _, activity := range global {
		if len(merged) >= service.config.TargetSize {
			break
		}
		if _, duplicate := seen[activity.ID]; duplicate {
			continue
		}
		seen[activity.ID] = struct{}{}
		merged = append(merged, activity)
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		}
		return merged[i].ID > merged[j].ID
	})

	return merged, nil
}
