// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package feed

import "context"

// Repository defines the data access contract for activity entries.
//
// Both listings return entries newest-first (createdat descending, ID
// descending on ties) so the service can trust the incoming order.
type Repository interface {

	/*
		ListByPerson returns the newest entries owned by one member.

		Parameters:
		  - context: context.Context
		  - personID: string
		  - limit: int

		Returns:
		  - []Activity: Newest-first entries
		  - error: Retrieval failures
	*/
	ListByPerson(context context.Context, personID string, limit int) ([]Activity, error)

	/*
		ListGlobal returns the newest entries across the whole platform.

		Parameters:
		  - context: context.Context
		  - limit: int

		Returns:
		  - []Activity: Newest-first entries
		  - error: Retrieval failures
	*/
	ListGlobal(context context.Context, limit int) ([]Activity, error)

	/*
		Insert persists a new activity entry.

		Parameters:
		  - context: context.Context
		  - activity: *Activity

		Returns:
		  - error: Persistence failures
	*/
	Insert(context context.Context, activity *Activity) error
}
