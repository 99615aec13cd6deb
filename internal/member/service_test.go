// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package member

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangkhoa/meshly/internal/platform/apperr"
	"github.com/dangkhoa/meshly/pkg/pointer"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	people      map[string]*Person
	adminCount  int
	updateCalls int
}

func newFakeRepository(people ...*Person) *fakeRepository {
	repo := &fakeRepository{people: map[string]*Person{}}
	for _, person := range people {
		repo.people[person.ID] = person
		if person.Admin && !person.Deactivated {
			repo.adminCount++
		}
	}
	return repo
}

func (r *fakeRepository) FindByID(_ context.Context, id string) (*Person, error) {
	person, ok := r.people[id]
	if !ok {
		return nil, apperr.NotFound("Member")
	}
	clone := *person
	return &clone, nil
}

func (r *fakeRepository) FindByEmail(_ context.Context, email string) (*Person, error) {
	for _, person := range r.people {
		if person.Email == email {
			clone := *person
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Member")
}

func (r *fakeRepository) FindByRememberToken(_ context.Context, token string) (*Person, error) {
	for _, person := range r.people {
		if person.RememberToken != nil && *person.RememberToken == token {
			clone := *person
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Member")
}

func (r *fakeRepository) Create(_ context.Context, person *Person) error {
	r.people[person.ID] = person
	return nil
}

func (r *fakeRepository) UpdateProfile(_ context.Context, person *Person) error {
	r.updateCalls++
	r.people[person.ID] = person
	return nil
}

func (r *fakeRepository) SetDeactivated(_ context.Context, id string, deactivated bool) error {
	r.people[id].Deactivated = deactivated
	return nil
}

func (r *fakeRepository) MarkEmailVerified(_ context.Context, id string) error {
	r.people[id].EmailVerified = pointer.To(true)
	return nil
}

func (r *fakeRepository) UpdateEncryptedPassword(_ context.Context, id string, ciphertext string) error {
	r.people[id].EncryptedPassword = ciphertext
	return nil
}

func (r *fakeRepository) UpdateRememberToken(_ context.Context, id string, token *string, expiresAt *time.Time) error {
	r.people[id].RememberToken = token
	r.people[id].RememberTokenExpiresAt = expiresAt
	return nil
}

func (r *fakeRepository) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.people[id].LastLoggedInAt = &at
	return nil
}

func (r *fakeRepository) CountActiveAdmins(_ context.Context) (int, error) {
	return r.adminCount, nil
}

// fakeRecorder captures activity notifications.
type fakeRecorder struct {
	entries []string
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, _ string, _ string, payload string) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, payload)
	return nil
}

func newTestService(repo *fakeRepository, recorder *fakeRecorder) *Service {
	return NewService(repo, recorder, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_UpdateProfile_RecordsDescriptionChange(t *testing.T) {
	repo := newFakeRepository(&Person{ID: "m1", Name: "Khoa", Description: "old bio"})
	recorder := &fakeRecorder{}
	service := newTestService(repo, recorder)

	person, err := service.UpdateProfile(context.Background(), "m1", UpdateProfileInput{
		Description: pointer.To("new bio"),
	})

	require.NoError(t, err)
	assert.Equal(t, "new bio", person.Description)
	require.Len(t, recorder.entries, 1)
	assert.Contains(t, recorder.entries[0], "Khoa")
}

func TestService_UpdateProfile_SilentWhenDescriptionUnchanged(t *testing.T) {
	repo := newFakeRepository(&Person{ID: "m1", Name: "Khoa", Description: "same bio"})
	recorder := &fakeRecorder{}
	service := newTestService(repo, recorder)

	_, err := service.UpdateProfile(context.Background(), "m1", UpdateProfileInput{
		Description: pointer.To("same bio"),
	})

	require.NoError(t, err)
	assert.Empty(t, recorder.entries)
}

func TestService_UpdateProfile_SilentWhenDescriptionCleared(t *testing.T) {
	repo := newFakeRepository(&Person{ID: "m1", Name: "Khoa", Description: "old bio"})
	recorder := &fakeRecorder{}
	service := newTestService(repo, recorder)

	person, err := service.UpdateProfile(context.Background(), "m1", UpdateProfileInput{
		Description: pointer.To("   "),
	})

	require.NoError(t, err)
	assert.Equal(t, "   ", person.Description)
	assert.Empty(t, recorder.entries, "blank description must not produce an activity entry")
}

func TestService_UpdateProfile_RecorderFailureDoesNotFailUpdate(t *testing.T) {
	repo := newFakeRepository(&Person{ID: "m1", Name: "Khoa", Description: "old"})
	recorder := &fakeRecorder{err: errors.New("feed down")}
	service := newTestService(repo, recorder)

	person, err := service.UpdateProfile(context.Background(), "m1", UpdateProfileInput{
		Description: pointer.To("new"),
	})

	require.NoError(t, err)
	assert.Equal(t, "new", person.Description)
	assert.Equal(t, "new", repo.people["m1"].Description)
}

func TestService_UpdateProfile_NameChangeRefreshesSlug(t *testing.T) {
	repo := newFakeRepository(&Person{ID: "m1", Name: "Khoa", Slug: "khoa"})
	service := newTestService(repo, &fakeRecorder{})

	person, err := service.UpdateProfile(context.Background(), "m1", UpdateProfileInput{
		Name: pointer.To("Đăng Khoa"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Đăng Khoa", person.Name)
	assert.Equal(t, "dang-khoa", person.Slug)
}

func TestService_UpdateProfile_Validation(t *testing.T) {
	repo := newFakeRepository(&Person{ID: "m1", Name: "Khoa"})
	service := newTestService(repo, &fakeRecorder{})

	longDescription := make([]byte, 0, DescriptionMaxLen+1)
	for i := 0; i <= DescriptionMaxLen; i++ {
		longDescription = append(longDescription, 'a')
	}

	testCases := []struct {
		name  string
		input UpdateProfileInput
	}{
		{name: "blank name", input: UpdateProfileInput{Name: pointer.To("  ")}},
		{name: "oversized description", input: UpdateProfileInput{Description: pointer.To(string(longDescription))}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.UpdateProfile(context.Background(), "m1", testCase.input)
			require.Error(t, err)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "VALIDATION_ERROR", appError.Code)
			assert.Zero(t, repo.updateCalls, "invalid input must not reach the repository")
		})
	}
}

func TestService_Deactivate(t *testing.T) {
	t.Run("regular member", func(t *testing.T) {
		repo := newFakeRepository(&Person{ID: "m1"})
		service := newTestService(repo, &fakeRecorder{})

		require.NoError(t, service.Deactivate(context.Background(), "m1"))
		assert.True(t, repo.people["m1"].Deactivated)
	})

	t.Run("last remaining admin is refused", func(t *testing.T) {
		repo := newFakeRepository(&Person{ID: "a1", Admin: true})
		service := newTestService(repo, &fakeRecorder{})

		err := service.Deactivate(context.Background(), "a1")
		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "FORBIDDEN", appError.Code)
		assert.False(t, repo.people["a1"].Deactivated)
	})

	t.Run("admin with peers may deactivate", func(t *testing.T) {
		repo := newFakeRepository(
			&Person{ID: "a1", Admin: true},
			&Person{ID: "a2", Admin: true},
		)
		service := newTestService(repo, &fakeRecorder{})

		require.NoError(t, service.Deactivate(context.Background(), "a1"))
		assert.True(t, repo.people["a1"].Deactivated)
	})

	t.Run("unknown member", func(t *testing.T) {
		repo := newFakeRepository()
		service := newTestService(repo, &fakeRecorder{})

		err := service.Deactivate(context.Background(), "ghost")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}
