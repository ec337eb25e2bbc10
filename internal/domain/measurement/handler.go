package measurement

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medigram/medigram/internal/apperror"
	"github.com/medigram/medigram/internal/platform/auth"
	"github.com/medigram/medigram/pkg/pagination"
)

type Handler struct {
	svc      *Service
	resolver *auth.ClinicianResolver
}

func NewHandler(svc *Service, resolver *auth.ClinicianResolver) *Handler {
	return &Handler{svc: svc, resolver: resolver}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/measurements", h.List)
	api.GET("/measurements/latest", h.Latest)
	api.POST("/measurements", h.Record)
	api.GET("/users/:user_id/measurements", h.ListForPatient)
}

func (h *Handler) List(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	measurements, total, err := h.svc.ListForUser(c.Request().Context(), identity.UserID, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(measurements, total, p.Limit, p.Offset))
}

func (h *Handler) ListForPatient(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	clinician, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	patientID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "invalid user id")
	}
	p := pagination.FromContext(c)
	measurements, total, err := h.svc.ListForPatient(c.Request().Context(), identity.UserID, clinician, patientID, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(measurements, total, p.Limit, p.Offset))
}

func (h *Handler) Latest(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	m, err := h.svc.LatestForUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Record(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var m Measurement
	if err := c.Bind(&m); err != nil {
		return apperror.New(apperror.Invalid, "malformed request body")
	}
	m.UserID = identity.UserID
	if err := h.svc.Record(c.Request().Context(), &m); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}
