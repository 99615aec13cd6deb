// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package credential

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dangkhoa/meshly/internal/member"
	"github.com/dangkhoa/meshly/internal/platform/clock"
	"github.com/dangkhoa/meshly/internal/platform/constants"
	"github.com/dangkhoa/meshly/internal/platform/sec"
	"github.com/dangkhoa/meshly/internal/platform/validate"
	"github.com/dangkhoa/meshly/pkg/slug"
	"github.com/dangkhoa/meshly/pkg/uuid"
)

// PasswordMinLen bounds new passwords at registration and change time.
const PasswordMinLen = 8

// # Collaborator Contracts

// TokenProvider issues signed access tokens. Satisfied by [sec.TokenService].
type TokenProvider interface {
	GenerateAccessToken(memberID, email string, admin bool, timeToLive time.Duration) (string, error)
}

// # Service Layer

// Config carries the credential-specific toggles from the platform config.
type Config struct {
	// RequireEmailVerification gates login and activity classification on a
	// verified email when true.
	RequireEmailVerification bool

	// RememberTokenTTL is the lifetime of a newly issued remember token.
	RememberTokenTTL time.Duration
}

// Service orchestrates registration, authentication, and session management.
type Service struct {
	members      member.Repository
	cipher       Cipher
	tokens       TokenProvider
	verifyTokens VerificationTokenRepository
	clock        clock.Clock
	config       Config
	logger       *slog.Logger
}

// NewService creates a new credential Service.
func NewService(
	members member.Repository,
	cipher Cipher,
	tokens TokenProvider,
	verifyTokens VerificationTokenRepository,
	clk clock.Clock,
	config Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		members:      members,
		cipher:       cipher,
		tokens:       tokens,
		verifyTokens: verifyTokens,
		clock:        clk,
		config:       config,
		logger:       logger,
	}
}

// # Registration

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// RegisterResult is the outcome of a successful registration.
type RegisterResult struct {
	Person *member.Person

	// VerificationToken is handed to the mail delivery pipeline. It is never
	// returned to the registering client.
	VerificationToken string
}

/*
Register creates a new member account with an encrypted credential.

Description: The email is normalized before both the uniqueness check and
storage, so addresses differing only in case or whitespace collide. The
password is encrypted with the platform public key — exactly one ciphertext
per member, ever. A verification token is parked in the token store for the
mail pipeline.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *RegisterResult: The created member and their verification token
  - error: Validation failures, ErrEmailTaken, ErrKeyUnavailable, or persistence failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*RegisterResult, error) {
	email := member.NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(member.FieldEmail, email).Email(member.FieldEmail, email)
	validator.Required(member.FieldName, input.Name).MaxLen(member.FieldName, input.Name, member.NameMaxLen)
	validator.MinLen(member.FieldPassword, input.Password, PasswordMinLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.members.FindByEmail(context, email); err == nil {
		return nil, ErrEmailTaken
	}

	ciphertext, err := service.cipher.Encrypt(input.Password)
	if err != nil {
		return nil, err
	}

	// EmailVerified stays nil here: no verification decision has been made
	// yet. It flips to true when the token is consumed.
	now := service.clock.Now()
	person := &member.Person{
		ID:                uuid.New(),
		Email:             email,
		Name:              input.Name,
		Slug:              slug.From(input.Name),
		EncryptedPassword: ciphertext,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := service.members.Create(context, person); err != nil {
		return nil, err
	}

	verificationToken, err := sec.GenerateSecureToken(constants.VerificationTokenLength)
	if err != nil {
		return nil, err
	}
	if err := service.verifyTokens.Save(context, verificationToken, person.ID, constants.VerificationTokenTTL); err != nil {
		return nil, err
	}

	service.logger.Info("member registered",
		slog.String("member_id", person.ID),
		slog.String("slug", person.Slug))

	return &RegisterResult{Person: person, VerificationToken: verificationToken}, nil
}

/*
VerifyEmail consumes a verification token and marks the member verified.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: ErrInvalidVerificationToken or persistence failures
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {
	memberID, err := service.verifyTokens.Consume(context, token)
	if err != nil {
		return err
	}

	if err := service.members.MarkEmailVerified(context, memberID); err != nil {
		return err
	}

	service.logger.Info("member email verified", slog.String("member_id", memberID))
	return nil
}

// # Authentication

/*
Authenticate checks an email/password pair against the stored credential.

Description: The stored ciphertext is decrypted and compared against the
submitted password in constant time. Failure modes stay distinct at this
layer (ErrNoSuchAccount vs ErrWrongPassword vs ErrDecryptionFailure); the
HTTP boundary decides what to collapse.

Parameters:
  - context: context.Context
  - email: string (normalized internally)
  - password: string

Returns:
  - *member.Person: The authenticated member
  - error: ErrNoSuchAccount, ErrWrongPassword, ErrDecryptionFailure, or ErrAccountDeactivated
*/
func (service *Service) Authenticate(context context.Context, email, password string) (*member.Person, error) {
	person, err := service.members.FindByEmail(context, member.NormalizeEmail(email))
	if err != nil {
		return nil, ErrNoSuchAccount
	}

	stored, err := service.cipher.Decrypt(person.EncryptedPassword)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return nil, ErrWrongPassword
	}

	if person.Deactivated {
		return nil, ErrAccountDeactivated
	}
	if !person.IsActive(service.config.RequireEmailVerification) {
		return nil, ErrEmailNotVerified
	}

	now := service.clock.Now()
	if err := service.members.TouchLastLogin(context, person.ID, now); err != nil {
		// Recency tracking must not block an otherwise valid login.
		service.logger.Warn("last login stamp failed",
			slog.String("member_id", person.ID),
			slog.String("error", err.Error()))
	} else {
		person.LastLoggedInAt = &now
	}

	return person, nil
}

// LoginSession is the outcome of a successful login or session resumption.
type LoginSession struct {
	Person                 *member.Person `json:"member"`
	AccessToken            string         `json:"access_token"`
	RememberToken          string         `json:"remember_token,omitempty"`
	RememberTokenExpiresAt *time.Time     `json:"remember_token_expires_at,omitempty"`
}

/*
Login authenticates a member and issues an access token, optionally with a
long-lived remember token.

Parameters:
  - context: context.Context
  - email: string
  - password: string
  - remember: bool (Issue a remember token alongside the JWT)

Returns:
  - *LoginSession: Tokens and the authenticated member
  - error: Authentication or token issuance failures
*/
func (service *Service) Login(context context.Context, email, password string, remember bool) (*LoginSession, error) {
	person, err := service.Authenticate(context, email, password)
	if err != nil {
		return nil, err
	}

	accessToken, err := service.tokens.GenerateAccessToken(person.ID, person.Email, person.Admin, constants.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	session := &LoginSession{Person: person, AccessToken: accessToken}

	if remember {
		token, expiresAt, err := service.IssueRememberToken(context, person)
		if err != nil {
			return nil, err
		}
		session.RememberToken = token
		session.RememberTokenExpiresAt = &expiresAt
	}

	return session, nil
}

// # Remember Tokens

/*
IssueRememberToken derives and persists a fresh remember token.

Description: The token is the hex SHA-256 digest of "<email>--<unix expiry>".
The derivation is deterministic for a given email and expiry instant, which
keeps it reproducible from the stored expiry during audits. Issuing always
overwrites whatever token existed before.

Parameters:
  - context: context.Context
  - person: *member.Person

Returns:
  - string: The token digest
  - time.Time: Its expiry instant
  - error: Persistence failures
*/
func (service *Service) IssueRememberToken(context context.Context, person *member.Person) (string, time.Time, error) {
	expiresAt := service.clock.Now().Add(service.config.RememberTokenTTL)
	token := sec.HashToken(person.Email + "--" + strconv.FormatInt(expiresAt.Unix(), 10))

	if err := service.members.UpdateRememberToken(context, person.ID, &token, &expiresAt); err != nil {
		return "", time.Time{}, err
	}

	person.RememberToken = &token
	person.RememberTokenExpiresAt = &expiresAt
	return token, expiresAt, nil
}

/*
ResumeWithRememberToken exchanges a live remember token for a fresh access
token.

Description: The stored expiry decides validity; a token whose expiry equals
the current instant is already dead. Deactivated members cannot resume.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *LoginSession: A fresh access token (the remember token is left in place)
  - error: ErrInvalidRememberToken, ErrAccountDeactivated, or issuance failures
*/
func (service *Service) ResumeWithRememberToken(context context.Context, token string) (*LoginSession, error) {
	person, err := service.members.FindByRememberToken(context, token)
	if err != nil {
		return nil, ErrInvalidRememberToken
	}

	if !person.RememberTokenValidAt(service.clock.Now()) {
		return nil, ErrInvalidRememberToken
	}

	if person.Deactivated {
		return nil, ErrAccountDeactivated
	}
	if !person.IsActive(service.config.RequireEmailVerification) {
		return nil, ErrEmailNotVerified
	}

	accessToken, err := service.tokens.GenerateAccessToken(person.ID, person.Email, person.Admin, constants.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	return &LoginSession{Person: person, AccessToken: accessToken}, nil
}

/*
ForgetRememberToken clears the member's remember token pair.

Description: Both columns go back to NULL together, restoring the
no-session state. Logging out twice is harmless.

Parameters:
  - context: context.Context
  - memberID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) ForgetRememberToken(context context.Context, memberID string) error {
	return service.members.UpdateRememberToken(context, memberID, nil, nil)
}

// # Password Management

/*
ChangePassword rotates a member's credential after proving the current one.

Description: The proof decrypts the stored ciphertext and compares it to the
typed current password. On success the new password replaces the old
ciphertext entirely and the remember token is revoked, so stolen long-lived
sessions die with the old password.

Parameters:
  - context: context.Context
  - memberID: string
  - currentPassword: string
  - newPassword: string
  - confirmPassword: string

Returns:
  - error: ErrConfirmationMismatch, ErrIncorrectCurrentPassword, validation or persistence failures
*/
func (service *Service) ChangePassword(context context.Context, memberID, currentPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrConfirmationMismatch
	}

	validator := &validate.Validator{}
	validator.MinLen(member.FieldNewPassword, newPassword, PasswordMinLen)
	if err := validator.Err(); err != nil {
		return err
	}

	person, err := service.members.FindByID(context, memberID)
	if err != nil {
		return err
	}

	stored, err := service.cipher.Decrypt(person.EncryptedPassword)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(currentPassword)) != 1 {
		return ErrIncorrectCurrentPassword
	}

	ciphertext, err := service.cipher.Encrypt(newPassword)
	if err != nil {
		return err
	}

	if err := service.members.UpdateEncryptedPassword(context, person.ID, ciphertext); err != nil {
		return err
	}

	if err := service.ForgetRememberToken(context, person.ID); err != nil {
		return fmt.Errorf("credential_change_password_revoke_failed: %w", err)
	}

	service.logger.Info("member password changed", slog.String("member_id", memberID))
	return nil
}

// # Administration

/*
IsLastRemainingAdmin reports whether the member is the only active admin.

Description: Mirrors the guard inside the member deactivation flow for
callers that need the answer without attempting a deactivation (admin
dashboards, pre-flight confirmation prompts).

Parameters:
  - context: context.Context
  - person: *member.Person

Returns:
  - bool: True when deactivating this member would leave zero admins
  - error: Retrieval failures
*/
func (service *Service) IsLastRemainingAdmin(context context.Context, person *member.Person) (bool, error) {
	if !person.Admin || person.Deactivated {
		return false, nil
	}
	count, err := service.members.CountActiveAdmins(context)
	if err != nil {
		return false, err
	}
	return count <= 1, nil
}

// IsAuthFailure reports whether err is one of the credential failures that
// the HTTP boundary must collapse into a single generic response.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrNoSuchAccount) ||
		errors.Is(err, ErrWrongPassword) ||
		errors.Is(err, ErrDecryptionFailure)
}
