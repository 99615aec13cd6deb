// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

/*
Package feed records profile activity and composes member activity feeds.

A feed is a small window of recent activity entries. When a member's own
circle has not produced enough entries, the window is topped up from the
platform-wide stream so new members never stare at an empty page.
*/
package feed

import "time"

// Activity is one entry in the activity stream.
type Activity struct {
	ID string `json:"id"`

	// PersonID owns the feed the entry lives in.
	PersonID string `json:"person_id"`

	// SubjectID is the member the entry is about. For profile edits it
	// equals PersonID.
	SubjectID string `json:"subject_id"`

	// Payload is the human-readable activity text.
	Payload string `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}
