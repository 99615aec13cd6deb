// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package member

import (
	"net/http"

	"github.com/go-chi/chi/v5"

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
	router.Get("/{id}", handler.getMember)

	// Self-service (authenticated)
	router.Group(func(selfRoute chi.Router) {
		selfRoute.Use(middleware.RequireAuth)

		selfRoute.Get("/me", handler.getSelf)
		selfRoute.Patch("/me", handler.updateProfile)
		selfRoute.Delete("/me", handler.deactivateSelf)
	})

	// Admin only
	router.With(middleware.RequireAdmin).Post("/{id}/reactivate", handler.reactivateMember)
}

func (handler *Handler) getMember(writer http.ResponseWriter, request *http.Request) {
	memberID := requestutil.Param(request, "id")

	person, err := handler.service.Get(request.Context(), memberID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Anyone can look up a member, but only the public projection leaves.
	// The full record (email, flags) is reserved for /me.
	respond.OK(writer, person.Profile())
}

func (handler *Handler) getSelf(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	person, err := handler.service.Get(request.Context(), claims.MemberID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, person)
}

type updateProfileRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	person, err := handler.service.UpdateProfile(request.Context(), claims.MemberID, UpdateProfileInput{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, person)
}

func (handler *Handler) deactivateSelf(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Deactivate(request.Context(), claims.MemberID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) reactivateMember(writer http.ResponseWriter, request *http.Request) {
	memberID := requestutil.Param(request, "id")

	if err := handler.service.Reactivate(request.Context(), memberID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
