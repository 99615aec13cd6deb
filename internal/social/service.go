// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package social

import (
	"context"
	"log/slog"

	"github.com/dangkhoa/meshly/internal/member"
	"github.com/dangkhoa/meshly/internal/platform/apperr"
	"github.com/dangkhoa/meshly/internal/platform/clock"
	"github.com/dangkhoa/meshly/pkg/pagination"
	"github.com/dangkhoa/meshly/pkg/uuid"
)

// Config carries the social-graph toggles from the platform config.
type Config struct {
	// RequireEmailVerification gates directory eligibility on a verified email.
	RequireEmailVerification bool

	// DefaultPageSize is the page size for mutual-contact and directory
	// listings when the request carries no explicit limit.
	DefaultPageSize int
}

// Service orchestrates connection requests and social-graph queries.
type Service struct {
	connections Repository
	members     member.Repository
	clock       clock.Clock
	config      Config
	logger      *slog.Logger
}

// NewService creates a new social Service.
func NewService(connections Repository, members member.Repository, clk clock.Clock, config Config, logger *slog.Logger) *Service {
	return &Service{
		connections: connections,
		members:     members,
		clock:       clk,
		config:      config,
		logger:      logger,
	}
}

/*
RequestConnection creates a pending edge from personID to contactID.

Parameters:
  - context: context.Context
  - personID: string (The requester)
  - contactID: string (The requested member)

Returns:
  - *Connection: The pending edge
  - error: Validation failures, apperr.NotFound, apperr.Conflict, or persistence failures
*/
func (service *Service) RequestConnection(context context.Context, personID string, contactID string) (*Connection, error) {
	if personID == contactID {
		return nil, apperr.ValidationError("Cannot connect to yourself")
	}

	contact, err := service.members.FindByID(context, contactID)
	if err != nil {
		return nil, err
	}
	if !contact.IsActive(service.config.RequireEmailVerification) {
		return nil, apperr.NotFound("Member")
	}

	connection := &Connection{
		ID:        uuid.New(),
		PersonID:  personID,
		ContactID: contactID,
		Status:    StatusRequested,
		CreatedAt: service.clock.Now(),
	}

	if err := service.connections.Insert(context, connection); err != nil {
		return nil, err
	}

	service.logger.Info("connection requested",
		slog.String("person_id", personID),
		slog.String("contact_id", contactID))
	return connection, nil
}

/*
GetConnection returns the directed edge from personID to contactID, letting a
member check where a request stands.

Parameters:
  - context: context.Context
  - personID: string
  - contactID: string

Returns:
  - *Connection: The edge
  - error: apperr.NotFound when no edge exists
*/
func (service *Service) GetConnection(context context.Context, personID string, contactID string) (*Connection, error) {
	return service.connections.Get(context, personID, contactID)
}

/*
AcceptConnection accepts a pending request addressed to accepterID.

Parameters:
  - context: context.Context
  - requesterID: string
  - accepterID: string

Returns:
  - error: apperr.NotFound when no pending request exists, or persistence failures
*/
func (service *Service) AcceptConnection(context context.Context, requesterID string, accepterID string) error {
	if err := service.connections.Accept(context, requesterID, accepterID, service.clock.Now()); err != nil {
		return err
	}

	service.logger.Info("connection accepted",
		slog.String("requester_id", requesterID),
		slog.String("accepter_id", accepterID))
	return nil
}

/*
RejectConnection declines a pending request addressed to accepterID.

Parameters:
  - context: context.Context
  - requesterID: string
  - accepterID: string

Returns:
  - error: apperr.NotFound when no pending request exists, or persistence failures
*/
func (service *Service) RejectConnection(context context.Context, requesterID string, accepterID string) error {
	return service.connections.Reject(context, requesterID, accepterID)
}

/*
MutualContacts returns active members connected to BOTH given members.

Parameters:
  - context: context.Context
  - personAID: string
  - personBID: string
  - page: pagination.Params

Returns:
  - []member.Person: Shared contacts
  - pagination.Meta: Pagination metadata
  - error: Validation failures, apperr.NotFound, or retrieval failures
*/
func (service *Service) MutualContacts(context context.Context, personAID string, personBID string, page pagination.Params) ([]member.Person, pagination.Meta, error) {
	if personAID == personBID {
		return nil, pagination.Meta{}, apperr.ValidationError("Cannot intersect a member with themselves")
	}

	// Both endpoints must exist; a typo'd ID should 404, not return empty.
	if _, err := service.members.FindByID(context, personAID); err != nil {
		return nil, pagination.Meta{}, err
	}
	if _, err := service.members.FindByID(context, personBID); err != nil {
		return nil, pagination.Meta{}, err
	}

	persons, total, err := service.connections.MutualContacts(context,
		personAID, personBID, service.config.RequireEmailVerification,
		page.Limit, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return persons, pagination.NewMeta(page.Page, page.Limit, total), nil
}

/*
ListActive returns all active members.

Parameters:
  - context: context.Context
  - page: pagination.Params

Returns:
  - []member.Person: Active members
  - pagination.Meta: Pagination metadata
  - error: Retrieval failures
*/
func (service *Service) ListActive(context context.Context, page pagination.Params) ([]member.Person, pagination.Meta, error) {
	persons, total, err := service.connections.ListActive(context,
		service.config.RequireEmailVerification, page.Limit, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return persons, pagination.NewMeta(page.Page, page.Limit, total), nil
}

/*
ListMostlyActive returns active members seen within the recency window.

Parameters:
  - context: context.Context
  - page: pagination.Params

Returns:
  - []member.Person: Mostly active members
  - pagination.Meta: Pagination metadata
  - error: Retrieval failures
*/
func (service *Service) ListMostlyActive(context context.Context, page pagination.Params) ([]member.Person, pagination.Meta, error) {
	since := service.clock.Now().Add(-member.MostlyActiveWindow)

	persons, total, err := service.connections.ListMostlyActive(context,
		since, service.config.RequireEmailVerification, page.Limit, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return persons, pagination.NewMeta(page.Page, page.Limit, total), nil
}
