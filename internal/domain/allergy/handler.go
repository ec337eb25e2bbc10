package allergy

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
	api.GET("/allergies", h.List)
	api.POST("/allergies", h.Add)
	api.DELETE("/allergies/:id", h.Remove)
	api.GET("/users/:user_id/allergies", h.ListForPatient)
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
	allergies, total, err := h.svc.ListForPatient(c.Request().Context(), identity.UserID, clinician, patientID, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(allergies, total, p.Limit, p.Offset))
}

func (h *Handler) List(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	allergies, total, err := h.svc.ListForUser(c.Request().Context(), identity.UserID, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(allergies, total, p.Limit, p.Offset))
}

func (h *Handler) Add(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var a Allergy
	if err := c.Bind(&a); err != nil {
		return apperror.New(apperror.Invalid, "malformed request body")
	}
	a.UserID = identity.UserID
	if err := h.svc.Add(c.Request().Context(), &a); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Remove(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "invalid allergy id")
	}
	if err := h.svc.Remove(c.Request().Context(), identity.UserID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
