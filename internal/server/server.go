// Package server exposes the query service over HTTP. The handlers do
// translation only; every policy decision lives in the search package.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hostelhaven/internal/domain"
	"hostelhaven/internal/search"
)

// Server is the HTTP front of the query service.
type Server struct {
	echo *echo.Echo
	svc  *search.Service
	log  *slog.Logger
	addr string
}

// New wires routes onto a fresh echo instance.
func New(svc *search.Service, addr string, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, svc: svc, log: log, addr: addr}
	e.POST("/api/search", s.handleSearch)
	e.GET("/api/featured", s.handleFeatured)
	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return s
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.log.Info("http server listening", "addr", s.addr)
	return s.echo.Start(s.addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// searchRequest is the JSON body of POST /api/search. Everything except
// query is optional.
type searchRequest struct {
	Query   string          `json:"query"`
	K       int             `json:"k,omitempty"`
	Filters *requestFilters `json:"filters,omitempty"`
}

type requestFilters struct {
	MinRent    *int     `json:"min_rent,omitempty"`
	MaxRent    *int     `json:"max_rent,omitempty"`
	MinRating  *float64 `json:"min_rating,omitempty"`
	RoomTypes  []string `json:"room_types,omitempty"`
	Facilities []string `json:"facilities,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	listings, err := s.svc.Search(c.Request().Context(), search.Request{
		Query:   req.Query,
		K:       req.K,
		Filters: toFilters(req.Filters),
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toListingResponses(listings))
}

func (s *Server) handleFeatured(c echo.Context) error {
	listings, err := s.svc.Featured(c.Request().Context())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toListingResponses(listings))
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps domain errors onto status codes. User input errors stay
// quiet; dependency failures are logged with their cause and surfaced with
// a generic message.
func (s *Server) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "query cannot be empty"})
	case errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrProviderRateLimited),
		errors.Is(err, domain.ErrProviderMalformedResponse):
		s.log.Error("embedding provider failure", "error", err)
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "search is temporarily unavailable"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.log.Error("listing store failure", "error", err)
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "search is temporarily unavailable"})
	default:
		s.log.Error("search failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func toFilters(rf *requestFilters) *search.Filters {
	if rf == nil {
		return nil
	}
	return &search.Filters{
		MinRent:    rf.MinRent,
		MaxRent:    rf.MaxRent,
		MinRating:  rf.MinRating,
		RoomTypes:  rf.RoomTypes,
		Facilities: rf.Facilities,
	}
}
