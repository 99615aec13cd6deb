// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package credential

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangkhoa/meshly/internal/member"
	"github.com/dangkhoa/meshly/internal/platform/apperr"
	"github.com/dangkhoa/meshly/internal/platform/clock"
	"github.com/dangkhoa/meshly/internal/platform/sec"
	"github.com/dangkhoa/meshly/pkg/pointer"
)

// # Test Doubles

// fakeMemberRepository is an in-memory member.Repository.
type fakeMemberRepository struct {
	people     map[string]*member.Person
	adminCount int
}

func newFakeMemberRepository(people ...*member.Person) *fakeMemberRepository {
	repo := &fakeMemberRepository{people: map[string]*member.Person{}}
	for _, person := range people {
		repo.people[person.ID] = person
		if person.Admin && !person.Deactivated {
			repo.adminCount++
		}
	}
	return repo
}

func (r *fakeMemberRepository) FindByID(_ context.Context, id string) (*member.Person, error) {
	person, ok := r.people[id]
	if !ok {
		return nil, apperr.NotFound("Member")
	}
	clone := *person
	return &clone, nil
}

func (r *fakeMemberRepository) FindByEmail(_ context.Context, email string) (*member.Person, error) {
	for _, person := range r.people {
		if person.Email == email {
			clone := *person
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Member")
}

func (r *fakeMemberRepository) FindByRememberToken(_ context.Context, token string) (*member.Person, error) {
	for _, person := range r.people {
		if person.RememberToken != nil && *person.RememberToken == token {
			clone := *person
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Member")
}

func (r *fakeMemberRepository) Create(_ context.Context, person *member.Person) error {
	r.people[person.ID] = person
	return nil
}

func (r *fakeMemberRepository) UpdateProfile(_ context.Context, person *member.Person) error {
	r.people[person.ID] = person
	return nil
}

func (r *fakeMemberRepository) SetDeactivated(_ context.Context, id string, deactivated bool) error {
	r.people[id].Deactivated = deactivated
	return nil
}

func (r *fakeMemberRepository) MarkEmailVerified(_ context.Context, id string) error {
	r.people[id].EmailVerified = pointer.To(true)
	return nil
}

func (r *fakeMemberRepository) UpdateEncryptedPassword(_ context.Context, id string, ciphertext string) error {
	r.people[id].EncryptedPassword = ciphertext
	return nil
}

func (r *fakeMemberRepository) UpdateRememberToken(_ context.Context, id string, token *string, expiresAt *time.Time) error {
	r.people[id].RememberToken = token
	r.people[id].RememberTokenExpiresAt = expiresAt
	return nil
}

func (r *fakeMemberRepository) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.people[id].LastLoggedInAt = &at
	return nil
}

func (r *fakeMemberRepository) CountActiveAdmins(_ context.Context) (int, error) {
	return r.adminCount, nil
}

// fakeCipher reverses trivially so tests can inspect both directions.
type fakeCipher struct{}

func (fakeCipher) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (fakeCipher) Decrypt(ciphertext string) (string, error) {
	plaintext, ok := strings.CutPrefix(ciphertext, "enc:")
	if !ok {
		return "", ErrDecryptionFailure
	}
	return plaintext, nil
}

// fakeTokenProvider issues predictable access tokens.
type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(memberID, _ string, _ bool, _ time.Duration) (string, error) {
	return "jwt-for-" + memberID, nil
}

// fakeVerifyTokenRepository is an in-memory token store.
type fakeVerifyTokenRepository struct {
	tokens map[string]string
}

func (r *fakeVerifyTokenRepository) Save(_ context.Context, token, memberID string, _ time.Duration) error {
	if r.tokens == nil {
		r.tokens = map[string]string{}
	}
	r.tokens[token] = memberID
	return nil
}

func (r *fakeVerifyTokenRepository) Consume(_ context.Context, token string) (string, error) {
	memberID, ok := r.tokens[token]
	if !ok {
		return "", ErrInvalidVerificationToken
	}
	delete(r.tokens, token)
	return memberID, nil
}

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func newTestCredentialService(repo *fakeMemberRepository) (*Service, *fakeVerifyTokenRepository) {
	verifyTokens := &fakeVerifyTokenRepository{}
	service := NewService(
		repo,
		fakeCipher{},
		fakeTokenProvider{},
		verifyTokens,
		clock.Fixed{At: testNow},
		Config{RememberTokenTTL: 2 * 8760 * time.Hour},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return service, verifyTokens
}

// # Registration

func TestService_Register(t *testing.T) {
	repo := newFakeMemberRepository()
	service, verifyTokens := newTestCredentialService(repo)

	result, err := service.Register(context.Background(), RegisterInput{
		Email:    "  Linh.Nguyen@Meshly.Social ",
		Name:     "Linh Nguyễn",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	person := result.Person
	assert.Equal(t, "linh.nguyen@meshly.social", person.Email, "email must be normalized before storage")
	assert.Equal(t, "linh-nguyen", person.Slug)
	assert.Equal(t, "enc:correct-horse", person.EncryptedPassword)
	assert.Nil(t, person.EmailVerified, "no verification decision exists yet")
	assert.Equal(t, testNow, person.CreatedAt)

	require.NotEmpty(t, result.VerificationToken)
	assert.Equal(t, person.ID, verifyTokens.tokens[result.VerificationToken])
}

func TestService_Register_SharedDisplayNameSharesSlug(t *testing.T) {
	repo := newFakeMemberRepository()
	service, _ := newTestCredentialService(repo)

	first, err := service.Register(context.Background(), RegisterInput{
		Email:    "linh.a@meshly.social",
		Name:     "Linh Nguyen",
		Password: "password123",
	})
	require.NoError(t, err)

	// Same name up to diacritics, different email. Slugs are display labels,
	// not identity keys, so the second registration must succeed.
	second, err := service.Register(context.Background(), RegisterInput{
		Email:    "linh.b@meshly.social",
		Name:     "Linh Nguyễn",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "linh-nguyen", first.Person.Slug)
	assert.Equal(t, first.Person.Slug, second.Person.Slug)
	assert.NotEqual(t, first.Person.ID, second.Person.ID)
}

func TestService_Register_DuplicateEmailCollides(t *testing.T) {
	repo := newFakeMemberRepository(&member.Person{ID: "m1", Email: "linh@meshly.social"})
	service, _ := newTestCredentialService(repo)

	// Differs only in case and whitespace from the stored account.
	_, err := service.Register(context.Background(), RegisterInput{
		Email:    " LINH@meshly.social",
		Name:     "Imposter",
		Password: "password123",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Register_Validation(t *testing.T) {
	service, _ := newTestCredentialService(newFakeMemberRepository())

	testCases := []struct {
		name  string
		input RegisterInput
	}{
		{name: "bad email", input: RegisterInput{Email: "not-an-email", Name: "X", Password: "password123"}},
		{name: "missing name", input: RegisterInput{Email: "a@b.social", Name: " ", Password: "password123"}},
		{name: "short password", input: RegisterInput{Email: "a@b.social", Name: "X", Password: "short"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), testCase.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

// # Authentication

func activePerson() *member.Person {
	return &member.Person{
		ID:                "m1",
		Email:             "linh@meshly.social",
		Name:              "Linh",
		EncryptedPassword: "enc:correct-horse",
	}
}

func TestService_Authenticate(t *testing.T) {
	t.Run("success stamps last login", func(t *testing.T) {
		repo := newFakeMemberRepository(activePerson())
		service, _ := newTestCredentialService(repo)

		person, err := service.Authenticate(context.Background(), "LINH@meshly.social", "correct-horse")

		require.NoError(t, err)
		require.NotNil(t, person.LastLoggedInAt)
		assert.Equal(t, testNow, *person.LastLoggedInAt)
		assert.Equal(t, testNow, *repo.people["m1"].LastLoggedInAt)
	})

	t.Run("unknown email", func(t *testing.T) {
		service, _ := newTestCredentialService(newFakeMemberRepository())

		_, err := service.Authenticate(context.Background(), "ghost@meshly.social", "whatever")
		assert.ErrorIs(t, err, ErrNoSuchAccount)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, _ := newTestCredentialService(newFakeMemberRepository(activePerson()))

		_, err := service.Authenticate(context.Background(), "linh@meshly.social", "wrong")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("corrupt ciphertext", func(t *testing.T) {
		person := activePerson()
		person.EncryptedPassword = "garbage"
		service, _ := newTestCredentialService(newFakeMemberRepository(person))

		_, err := service.Authenticate(context.Background(), "linh@meshly.social", "correct-horse")
		assert.ErrorIs(t, err, ErrDecryptionFailure)
	})

	t.Run("unverified account when verification is required", func(t *testing.T) {
		person := activePerson()
		person.EmailVerified = pointer.To(false)
		repo := newFakeMemberRepository(person)
		service := NewService(repo, fakeCipher{}, fakeTokenProvider{}, &fakeVerifyTokenRepository{},
			clock.Fixed{At: testNow},
			Config{RequireEmailVerification: true, RememberTokenTTL: time.Hour},
			slog.New(slog.NewTextHandler(io.Discard, nil)))

		_, err := service.Authenticate(context.Background(), "linh@meshly.social", "correct-horse")
		assert.ErrorIs(t, err, ErrEmailNotVerified)
	})

	t.Run("unverified account when verification is off", func(t *testing.T) {
		person := activePerson()
		person.EmailVerified = pointer.To(false)
		service, _ := newTestCredentialService(newFakeMemberRepository(person))

		_, err := service.Authenticate(context.Background(), "linh@meshly.social", "correct-horse")
		assert.NoError(t, err)
	})

	t.Run("deactivated account with correct password", func(t *testing.T) {
		person := activePerson()
		person.Deactivated = true
		repo := newFakeMemberRepository(person)
		service, _ := newTestCredentialService(repo)

		_, err := service.Authenticate(context.Background(), "linh@meshly.social", "correct-horse")
		assert.ErrorIs(t, err, ErrAccountDeactivated)
		assert.Nil(t, repo.people["m1"].LastLoggedInAt, "refused login must not stamp last login")
	})
}

// # Sessions

func TestService_Login(t *testing.T) {
	t.Run("without remember", func(t *testing.T) {
		repo := newFakeMemberRepository(activePerson())
		service, _ := newTestCredentialService(repo)

		session, err := service.Login(context.Background(), "linh@meshly.social", "correct-horse", false)

		require.NoError(t, err)
		assert.Equal(t, "jwt-for-m1", session.AccessToken)
		assert.Empty(t, session.RememberToken)
		assert.Nil(t, session.RememberTokenExpiresAt)
		assert.Nil(t, repo.people["m1"].RememberToken)
	})

	t.Run("with remember", func(t *testing.T) {
		repo := newFakeMemberRepository(activePerson())
		service, _ := newTestCredentialService(repo)

		session, err := service.Login(context.Background(), "linh@meshly.social", "correct-horse", true)

		require.NoError(t, err)
		expectedExpiry := testNow.Add(2 * 8760 * time.Hour)
		require.NotNil(t, session.RememberTokenExpiresAt)
		assert.Equal(t, expectedExpiry, *session.RememberTokenExpiresAt)

		// Deterministic derivation: sha256("<email>--<unix expiry>").
		expectedToken := sec.HashToken("linh@meshly.social--" + strconv.FormatInt(expectedExpiry.Unix(), 10))
		assert.Equal(t, expectedToken, session.RememberToken)

		stored := repo.people["m1"]
		require.NotNil(t, stored.RememberToken)
		assert.Equal(t, expectedToken, *stored.RememberToken)
		assert.Equal(t, expectedExpiry, *stored.RememberTokenExpiresAt)
	})
}

func TestService_ResumeWithRememberToken(t *testing.T) {
	withToken := func(expiresAt time.Time) (*fakeMemberRepository, string) {
		person := activePerson()
		token := "remember-digest"
		person.RememberToken = &token
		person.RememberTokenExpiresAt = &expiresAt
		return newFakeMemberRepository(person), token
	}

	t.Run("live token yields a fresh access token", func(t *testing.T) {
		repo, token := withToken(testNow.Add(time.Hour))
		service, _ := newTestCredentialService(repo)

		session, err := service.ResumeWithRememberToken(context.Background(), token)

		require.NoError(t, err)
		assert.Equal(t, "jwt-for-m1", session.AccessToken)
		require.NotNil(t, repo.people["m1"].RememberToken, "resumption must not consume the token")
	})

	t.Run("expired token", func(t *testing.T) {
		repo, token := withToken(testNow.Add(-time.Second))
		service, _ := newTestCredentialService(repo)

		_, err := service.ResumeWithRememberToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidRememberToken)
	})

	t.Run("expiry equal to now is already expired", func(t *testing.T) {
		repo, token := withToken(testNow)
		service, _ := newTestCredentialService(repo)

		_, err := service.ResumeWithRememberToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidRememberToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		service, _ := newTestCredentialService(newFakeMemberRepository())

		_, err := service.ResumeWithRememberToken(context.Background(), "never-issued")
		assert.ErrorIs(t, err, ErrInvalidRememberToken)
	})

	t.Run("deactivated member cannot resume", func(t *testing.T) {
		repo, token := withToken(testNow.Add(time.Hour))
		repo.people["m1"].Deactivated = true
		service, _ := newTestCredentialService(repo)

		_, err := service.ResumeWithRememberToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrAccountDeactivated)
	})
}

func TestService_ForgetRememberToken(t *testing.T) {
	person := activePerson()
	token := "remember-digest"
	expiry := testNow.Add(time.Hour)
	person.RememberToken = &token
	person.RememberTokenExpiresAt = &expiry

	repo := newFakeMemberRepository(person)
	service, _ := newTestCredentialService(repo)

	require.NoError(t, service.ForgetRememberToken(context.Background(), "m1"))
	assert.Nil(t, repo.people["m1"].RememberToken)
	assert.Nil(t, repo.people["m1"].RememberTokenExpiresAt)

	// Logging out twice is harmless.
	require.NoError(t, service.ForgetRememberToken(context.Background(), "m1"))
}

// # Password Management

func TestService_ChangePassword(t *testing.T) {
	t.Run("success replaces ciphertext and revokes remember token", func(t *testing.T) {
		person := activePerson()
		token := "remember-digest"
		person.RememberToken = &token
		repo := newFakeMemberRepository(person)
		service, _ := newTestCredentialService(repo)

		err := service.ChangePassword(context.Background(), "m1", "correct-horse", "battery-staple", "battery-staple")

		require.NoError(t, err)
		assert.Equal(t, "enc:battery-staple", repo.people["m1"].EncryptedPassword)
		assert.Nil(t, repo.people["m1"].RememberToken)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		repo := newFakeMemberRepository(activePerson())
		service, _ := newTestCredentialService(repo)

		err := service.ChangePassword(context.Background(), "m1", "correct-horse", "battery-staple", "battery-stable")
		assert.ErrorIs(t, err, ErrConfirmationMismatch)
		assert.Equal(t, "enc:correct-horse", repo.people["m1"].EncryptedPassword)
	})

	t.Run("incorrect current password", func(t *testing.T) {
		repo := newFakeMemberRepository(activePerson())
		service, _ := newTestCredentialService(repo)

		err := service.ChangePassword(context.Background(), "m1", "wrong", "battery-staple", "battery-staple")
		assert.ErrorIs(t, err, ErrIncorrectCurrentPassword)
		assert.Equal(t, "enc:correct-horse", repo.people["m1"].EncryptedPassword)
	})

	t.Run("short new password", func(t *testing.T) {
		repo := newFakeMemberRepository(activePerson())
		service, _ := newTestCredentialService(repo)

		err := service.ChangePassword(context.Background(), "m1", "correct-horse", "short", "short")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

// # Email Verification

func TestService_VerifyEmail(t *testing.T) {
	person := activePerson()
	person.EmailVerified = pointer.To(false)
	repo := newFakeMemberRepository(person)
	service, verifyTokens := newTestCredentialService(repo)

	require.NoError(t, verifyTokens.Save(context.Background(), "tok123", "m1", time.Hour))

	require.NoError(t, service.VerifyEmail(context.Background(), "tok123"))
	require.NotNil(t, repo.people["m1"].EmailVerified)
	assert.True(t, *repo.people["m1"].EmailVerified)

	// Single use.
	err := service.VerifyEmail(context.Background(), "tok123")
	assert.ErrorIs(t, err, ErrInvalidVerificationToken)
}

// # Administration

func TestService_IsLastRemainingAdmin(t *testing.T) {
	t.Run("only active admin", func(t *testing.T) {
		admin := &member.Person{ID: "a1", Admin: true}
		service, _ := newTestCredentialService(newFakeMemberRepository(admin))

		last, err := service.IsLastRemainingAdmin(context.Background(), admin)
		require.NoError(t, err)
		assert.True(t, last)
	})

	t.Run("admin with peers", func(t *testing.T) {
		admin := &member.Person{ID: "a1", Admin: true}
		peer := &member.Person{ID: "a2", Admin: true}
		service, _ := newTestCredentialService(newFakeMemberRepository(admin, peer))

		last, err := service.IsLastRemainingAdmin(context.Background(), admin)
		require.NoError(t, err)
		assert.False(t, last)
	})

	t.Run("regular member is never the last admin", func(t *testing.T) {
		person := &member.Person{ID: "m1"}
		service, _ := newTestCredentialService(newFakeMemberRepository(person))

		last, err := service.IsLastRemainingAdmin(context.Background(), person)
		require.NoError(t, err)
		assert.False(t, last)
	})
}
