// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package credential

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangkhoa/meshly/internal/platform/apperr"
	"github.com/dangkhoa/meshly/internal/platform/middleware"
	requestutil "github.com/dangkhoa/meshly/internal/platform/request"
	"github.com/dangkhoa/meshly/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/remember", handler.resumeSession)
	router.Post("/verify-email", handler.verifyEmail)

	// Authenticated
	router.Group(func(authRoute chi.Router) {
		authRoute.Use(middleware.RequireAuth)

		authRoute.Post("/logout", handler.logout)
		authRoute.Post("/change-password", handler.changePassword)
	})
}

// collapseAuthFailure replaces account-revealing failures with one generic
// 401. Whether the email exists, the password was wrong, or the stored
// ciphertext was unreadable must look identical from outside.
//
// ErrAccountDeactivated and ErrEmailNotVerified deliberately stay
// distinguishable (403): Authenticate checks account state only after the
// password proof succeeds, so those responses are reachable only by the
// account holder, who needs to be told why login is refused.
func collapseAuthFailure(err error) error {
	if IsAuthFailure(err) {
		return apperr.Unauthorized("Invalid email or password")
	}
	return err
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Register(request.Context(), RegisterInput{
		Email:    input.Email,
		Name:     input.Name,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The verification token travels by email only.
	respond.Created(writer, result.Person)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), input.Email, input.Password, input.Remember)
	if err != nil {
		respond.Error(writer, request, collapseAuthFailure(err))
		return
	}
	respond.OK(writer, session)
}

type rememberRequest struct {
	Token string `json:"token"`
}

func (handler *Handler) resumeSession(writer http.ResponseWriter, request *http.Request) {
	var input rememberRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.ResumeWithRememberToken(request.Context(), input.Token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, session)
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input verifyEmailRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.VerifyEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ForgetRememberToken(request.Context(), claims.MemberID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.ChangePassword(request.Context(), claims.MemberID,
		input.CurrentPassword, input.NewPassword, input.ConfirmPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
