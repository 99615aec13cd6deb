// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

/*
Package social implements the connection graph and member directories.

Connections are directed rows: an accepted relationship is stored as TWO rows,
one per direction, written in the same transaction. Mutual-contact queries
lean on that invariant — a contact shared by two members contributes exactly
two rows when grouped, one from each endpoint.
*/
package social

import "time"

// Status is the lifecycle state of a connection edge.
type Status string

const (
	// StatusRequested marks a pending request from PersonID to ContactID.
	StatusRequested Status = "requested"

	// StatusAccepted marks a live connection. Accepted edges always exist
	// in both directions.
	StatusAccepted Status = "accepted"

	// StatusRejected marks a declined request. The row is kept so repeat
	// requests can be distinguished from first ones.
	StatusRejected Status = "rejected"
)

// Connection is one directed edge in the social graph.
//
// The (PersonID, ContactID) pair is unique; the grouped mutual-contact query
// depends on that constraint.
type Connection struct {
	ID        string `json:"id"`
	PersonID  string `json:"person_id"`
	ContactID string `json:"contact_id"`
	Status    Status `json:"status"`

	CreatedAt  time.Time  `json:"created_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}
