// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package member

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dangkhoa/meshly/internal/platform/apperr"
	"github.com/dangkhoa/meshly/internal/platform/validate"
	"github.com/dangkhoa/meshly/pkg/slug"
)

// # Collaborator Contracts

// ActivityRecorder receives profile-change notifications for the activity feed.
//
// Defined here (consumer side) so the member service does not depend on the
// feed package. The feed service satisfies it.
type ActivityRecorder interface {

	/*
		Record appends one activity entry for the given owner.

		Parameters:
		  - context: context.Context
		  - ownerID: string (Member whose feed gains the entry)
		  - subjectID: string (Member the entry is about)
		  - payload: string (Human-readable activity text)

		Returns:
		  - error: Persistence failures
	*/
	Record(context context.Context, ownerID string, subjectID string, payload string) error
}

// # Service Layer

// Service orchestrates member profile reads and updates.
type Service struct {
	repository Repository
	recorder   ActivityRecorder
	logger     *slog.Logger
}

// NewService creates a new member Service.
func NewService(repository Repository, recorder ActivityRecorder, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		recorder:   recorder,
		logger:     logger,
	}
}

/*
Get retrieves a single member by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Person: The member
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, id string) (*Person, error) {
	return service.repository.FindByID(context, id)
}

// UpdateProfileInput carries the editable profile fields. Nil pointers mean
// "leave unchanged"; a pointer to the empty string is an explicit clear.
type UpdateProfileInput struct {
	Name        *string
	Description *string
}

/*
UpdateProfile applies profile edits and records a feed entry when the
description actually changed.

Description: The activity entry fires only when the new description differs
from the stored one AND is non-blank after trimming. Re-saving an unchanged
profile, or clearing the description, stays silent. A recorder failure is
logged but does not roll back the profile write.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateProfileInput

Returns:
  - *Person: The updated member
  - error: apperr.NotFound, validation failures, or persistence failures
*/
func (service *Service) UpdateProfile(context context.Context, id string, input UpdateProfileInput) (*Person, error) {
	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, NameMaxLen)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, DescriptionMaxLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	person, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	descriptionChanged := false

	if input.Name != nil && *input.Name != person.Name {
		person.Name = *input.Name
		person.Slug = slug.From(person.Name)
	}
	if input.Description != nil && *input.Description != person.Description {
		person.Description = *input.Description
		descriptionChanged = true
	}

	if err := service.repository.UpdateProfile(context, person); err != nil {
		return nil, err
	}

	if descriptionChanged && strings.TrimSpace(person.Description) != "" {
		payload := fmt.Sprintf("%s updated their profile description", person.Name)
		if err := service.recorder.Record(context, person.ID, person.ID, payload); err != nil {
			service.logger.Warn("profile activity record failed",
				slog.String("member_id", person.ID),
				slog.String("error", err.Error()))
		}
	}

	return person, nil
}

/*
Deactivate flags a member account as deactivated.

Description: Deactivation is reversible and never deletes the row. The last
remaining non-deactivated admin cannot deactivate themselves, otherwise the
platform would be left without administration.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound, apperr.Forbidden, or persistence failures
*/
func (service *Service) Deactivate(context context.Context, id string) error {
	person, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if person.Admin && !person.Deactivated {
		count, err := service.repository.CountActiveAdmins(context)
		if err != nil {
			return err
		}
		if count <= 1 {
			return apperr.Forbidden("Cannot deactivate the last remaining admin")
		}
	}

	if err := service.repository.SetDeactivated(context, id, true); err != nil {
		return err
	}

	service.logger.Info("member deactivated", slog.String("member_id", id))
	return nil
}

/*
Reactivate clears the deactivation flag.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) Reactivate(context context.Context, id string) error {
	if _, err := service.repository.FindByID(context, id); err != nil {
		return err
	}
	if err := service.repository.SetDeactivated(context, id, false); err != nil {
		return err
	}
	service.logger.Info("member reactivated", slog.String("member_id", id))
	return nil
}
