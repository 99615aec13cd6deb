// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package feed

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangkhoa/meshly/internal/platform/clock"
)

// fakeRepository serves canned activity streams, newest-first like the real one.
type fakeRepository struct {
	entries           []Activity
	globalListedLimit int
}

func (r *fakeRepository) sorted(entries []Activity) []Activity {
	out := append([]Activity(nil), entries...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *fakeRepository) ListByPerson(_ context.Context, personID string, limit int) ([]Activity, error) {
	var owned []Activity
	for _, activity := range r.entries {
		if activity.PersonID == personID {
			owned = append(owned, activity)
		}
	}
	owned = r.sorted(owned)
	if len(owned) > limit {
		owned = owned[:limit]
	}
	return owned, nil
}

func (r *fakeRepository) ListGlobal(_ context.Context, limit int) ([]Activity, error) {
	r.globalListedLimit = limit
	all := r.sorted(r.entries)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeRepository) Insert(_ context.Context, activity *Activity) error {
	r.entries = append(r.entries, *activity)
	return nil
}

var feedNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func newTestFeedService(repo *fakeRepository) *Service {
	return NewService(repo, clock.Fixed{At: feedNow}, Config{
		TargetSize:    10,
		PersonalLimit: 25,
		GlobalCap:     50,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// entry builds an Activity n minutes in the past.
func entry(id, personID string, minutesAgo int) Activity {
	return Activity{
		ID:        id,
		PersonID:  personID,
		SubjectID: personID,
		Payload:   "did something",
		CreatedAt: feedNow.Add(-time.Duration(minutesAgo) * time.Minute),
	}
}

func TestService_Compose_TopsUpFromGlobal(t *testing.T) {
	repo := &fakeRepository{entries: []Activity{
		// Three entries of the member's own.
		entry("p1", "me", 1),
		entry("p2", "me", 5),
		entry("p3", "me", 9),
		// Plenty of entries from others.
		entry("g1", "other", 2),
		entry("g2", "other", 3),
		entry("g3", "other", 4),
		entry("g4", "other", 6),
		entry("g5", "other", 7),
		entry("g6", "other", 8),
		entry("g7", "other", 10),
		entry("g8", "other", 11),
	}}
	service := newTestFeedService(repo)

	feed, err := service.Compose(context.Background(), "me")

	require.NoError(t, err)
	require.Len(t, feed, 10)

	// Personal entries survive the merge.
	ids := map[string]bool{}
	for _, activity := range feed {
		assert.False(t, ids[activity.ID], "no entry may appear twice")
		ids[activity.ID] = true
	}
	assert.True(t, ids["p1"] && ids["p2"] && ids["p3"])

	// Strictly newest-first.
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].CreatedAt.After(feed[i-1].CreatedAt),
			"feed must be sorted newest-first")
	}
}

func TestService_Compose_FullPersonalFeedIsReturnedUnmodified(t *testing.T) {
	entries := make([]Activity, 0, 12)
	for i := 0; i < 12; i++ {
		entries = append(entries, entry(string(rune('a'+i)), "me", i))
	}
	// Global noise that must NOT appear.
	entries = append(entries, entry("noise", "other", 0))

	repo := &fakeRepository{entries: entries}
	service := newTestFeedService(repo)

	feed, err := service.Compose(context.Background(), "me")

	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(feed), 10)
	for _, activity := range feed {
		assert.Equal(t, "me", activity.PersonID, "a full personal feed is never mixed")
	}
	assert.Zero(t, repo.globalListedLimit, "global stream must not be queried at all")
}

func TestService_Compose_DeduplicatesByID(t *testing.T) {
	shared := entry("shared", "me", 1)
	repo := &fakeRepository{entries: []Activity{
		shared,
		entry("g1", "other", 2),
		entry("g2", "other", 3),
	}}
	service := newTestFeedService(repo)

	feed, err := service.Compose(context.Background(), "me")

	require.NoError(t, err)
	count := 0
	for _, activity := range feed {
		if activity.ID == "shared" {
			count++
		}
	}
	assert.Equal(t, 1, count, "the member's own entry also appears in the global stream")
	assert.Len(t, feed, 3)
}

func TestService_Compose_TieBreaksEqualTimestampsByID(t *testing.T) {
	sameInstant := feedNow.Add(-time.Minute)
	repo := &fakeRepository{entries: []Activity{
		{ID: "aaa", PersonID: "me", CreatedAt: sameInstant},
		{ID: "ccc", PersonID: "other", CreatedAt: sameInstant},
		{ID: "bbb", PersonID: "other", CreatedAt: sameInstant},
	}}
	service := newTestFeedService(repo)

	feed, err := service.Compose(context.Background(), "me")

	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, []string{"ccc", "bbb", "aaa"},
		[]string{feed[0].ID, feed[1].ID, feed[2].ID})
}

func TestService_Compose_EmptyPlatform(t *testing.T) {
	service := newTestFeedService(&fakeRepository{})

	feed, err := service.Compose(context.Background(), "me")

	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestService_Record(t *testing.T) {
	repo := &fakeRepository{}
	service := newTestFeedService(repo)

	err := service.Record(context.Background(), "me", "me", "updated their profile description")

	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	recorded := repo.entries[0]
	assert.NotEmpty(t, recorded.ID)
	assert.Equal(t, "me", recorded.PersonID)
	assert.Equal(t, "me", recorded.SubjectID)
	assert.Equal(t, feedNow, recorded.CreatedAt)
}
