// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package schema

// MemberActivityTable represents the 'members.activity' table
type MemberActivityTable struct {
	Table     string
	ID        string
	PersonID  string
	SubjectID string
	Payload   string
	CreatedAt string
}

// MemberActivity is the schema definition for members.activity
var MemberActivity = MemberActivityTable{
	Table:     "members.activity",
	ID:        "id",
	PersonID:  "personid",
	SubjectID: "subjectid",
	Payload:   "payload",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t MemberActivityTable) Columns() []string {
	return []string{t.ID, t.PersonID, t.SubjectID, t.Payload, t.CreatedAt}
}
