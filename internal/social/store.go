// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package social

import (
	"context"
	"time"

	"github.com/dangkhoa/meshly/internal/member"
)

// Repository defines the data access contract for the connection graph and
// the member directories built on top of it.
type Repository interface {

	/*
		Get returns the directed edge from personID to contactID.

		Parameters:
		  - context: context.Context
		  - personID: string
		  - contactID: string

		Returns:
		  - *Connection: The edge
		  - error: apperr.NotFound when no edge exists
	*/
	Get(context context.Context, personID string, contactID string) (*Connection, error)

	/*
		Insert persists a new directed edge.

		Parameters:
		  - context: context.Context
		  - connection: *Connection

		Returns:
		  - error: apperr.Conflict on a duplicate (personID, contactID) pair
	*/
	Insert(context context.Context, connection *Connection) error

	/*
		Accept flips the requester's edge to accepted and writes the
		reciprocal accepted edge in the same transaction, so accepted
		connections are always symmetric.

		Parameters:
		  - context: context.Context
		  - requesterID: string
		  - accepterID: string
		  - at: time.Time (Acceptance instant, stored on both edges)

		Returns:
		  - error: apperr.NotFound when no pending request exists, or transaction failures
	*/
	Accept(context context.Context, requesterID string, accepterID string, at time.Time) error

	/*
		Reject marks the requester's edge rejected.

		Parameters:
		  - context: context.Context
		  - requesterID: string
		  - accepterID: string

		Returns:
		  - error: apperr.NotFound when no pending request exists
	*/
	Reject(context context.Context, requesterID string, accepterID string) error

	/*
		MutualContacts returns members connected (accepted) to BOTH inputs,
		filtered to active members only.

		Parameters:
		  - context: context.Context
		  - personAID: string
		  - personBID: string
		  - requireVerified: bool (Also require a verified email)
		  - limit: int
		  - offset: int

		Returns:
		  - []member.Person: The shared contacts, name-ordered
		  - int: Total matches before pagination
		  - error: Retrieval failures
	*/
	MutualContacts(context context.Context, personAID string, personBID string, requireVerified bool, limit, offset int) ([]member.Person, int, error)

	/*
		ListActive returns all active members, newest-first.

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
	ListActive(context context.Context, requireVerified bool, limit, offset int) ([]member.Person, int, error)

	/*
		ListMostlyActive returns active members whose last login is at or
		after the given instant.

		Parameters:
		  - context: context.Context
		  - since: time.Time (Inclusive lower bound on lastloggedinat)
		  - requireVerified: bool
		  - limit: int
		  - offset: int

		Returns:
		  - []member.Person: Mostly active members
		  - int: Total matches before pagination
		  - error: Retrieval failures
	*/
	ListMostlyActive(context context.Context, since time.Time, requireVerified bool, limit, offset int) ([]member.Person, int, error)
}
