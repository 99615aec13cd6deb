// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package feed

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
	router.With(middleware.RequireAuth).Get("/", handler.getFeed)
}

func (handler *Handler) getFeed(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	activities, err := handler.service.Compose(request.Context(), claims.MemberID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, activities)
}
