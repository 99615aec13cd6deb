// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

// Package clock provides an injectable UTC time source.
//
// # Why not time.Now?
//
// Credential expiry and activity-recency classification both compare stored
// timestamps against "now". Injecting the time source keeps those comparisons
// deterministic in tests; production code always uses [System].
package clock

import "time"

// Clock supplies the current UTC time.
type Clock interface {
	Now() time.Time
}

// System is the production [Clock] backed by the OS clock.
type System struct{}

// Now returns the current time in UTC.
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed is a [Clock] frozen at a single instant, for tests.
type Fixed struct {
	At time.Time
}

// Now returns the frozen instant in UTC.
func (f Fixed) Now() time.Time { return f.At.UTC() }
