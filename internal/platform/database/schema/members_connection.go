// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package schema

// MemberConnectionTable represents the 'members.connection' table
type MemberConnectionTable struct {
	Table      string
	ID         string
	PersonID   string
	ContactID  string
	Status     string
	CreatedAt  string
	AcceptedAt string
}

// MemberConnection is the schema definition for members.connection
var MemberConnection = MemberConnectionTable{
	Table:      "members.connection",
	ID:         "id",
	PersonID:   "personid",
	ContactID:  "contactid",
	Status:     "status",
	CreatedAt:  "createdat",
	AcceptedAt: "acceptedat",
}

// Columns returns all standard column names
func (t MemberConnectionTable) Columns() []string {
	return []string{t.ID, t.PersonID, t.ContactID, t.Status, t.CreatedAt, t.AcceptedAt}
}
