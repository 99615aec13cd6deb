// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package social

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangkhoa/meshly/internal/member"
	"github.com/dangkhoa/meshly/internal/platform/middleware"
	requestutil "github.com/dangkhoa/meshly/internal/platform/request"
	"github.com/dangkhoa/meshly/internal/platform/respond"
	"github.com/dangkhoa/meshly/pkg/pagination"
	"github.com/dangkhoa/meshly/pkg/slice"
)

// profiles strips the private fields before a listing leaves the API.
func profiles(persons []member.Person) []member.Profile {
	return slice.Map(persons, member.Person.Profile)
}

// listingPage parses pagination with the configured directory page size as
// the default limit.
func (handler *Handler) listingPage(request *http.Request) pagination.Params {
	return pagination.FromRequestWithDefault(request, handler.service.config.DefaultPageSize)
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterConnectionRoutes mounts the connection-graph endpoints.
func (handler *Handler) RegisterConnectionRoutes(router chi.Router) {
	router.Use(middleware.RequireAuth)

	router.Get("/{id}", handler.getConnection)
	router.Post("/{id}/request", handler.requestConnection)
	router.Post("/{id}/accept", handler.acceptConnection)
	router.Post("/{id}/reject", handler.rejectConnection)
	router.Get("/mutual/{a}/{b}", handler.mutualContacts)
}

// RegisterDirectoryRoutes mounts the member directory listings.
func (handler *Handler) RegisterDirectoryRoutes(router chi.Router) {
	router.Get("/active", handler.listActive)
	router.Get("/mostly-active", handler.listMostlyActive)
}

func (handler *Handler) getConnection(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contactID := requestutil.Param(request, "id")
	connection, err := handler.service.GetConnection(request.Context(), claims.MemberID, contactID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, connection)
}

func (handler *Handler) requestConnection(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contactID := requestutil.Param(request, "id")
	connection, err := handler.service.RequestConnection(request.Context(), claims.MemberID, contactID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, connection)
}

func (handler *Handler) acceptConnection(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	requesterID := requestutil.Param(request, "id")
	if err := handler.service.AcceptConnection(request.Context(), requesterID, claims.MemberID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) rejectConnection(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	requesterID := requestutil.Param(request, "id")
	if err := handler.service.RejectConnection(request.Context(), requesterID, claims.MemberID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) mutualContacts(writer http.ResponseWriter, request *http.Request) {
	page := handler.listingPage(request)
	personAID := requestutil.Param(request, "a")
	personBID := requestutil.Param(request, "b")

	persons, meta, err := handler.service.MutualContacts(request.Context(), personAID, personBID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, profiles(persons), meta)
}

func (handler *Handler) listActive(writer http.ResponseWriter, request *http.Request) {
	page := handler.listingPage(request)

	persons, meta, err := handler.service.ListActive(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, profiles(persons), meta)
}

func (handler *Handler) listMostlyActive(writer http.ResponseWriter, request *http.Request) {
	page := handler.listingPage(request)

	persons, meta, err := handler.service.ListMostlyActive(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, profiles(persons), meta)
}
