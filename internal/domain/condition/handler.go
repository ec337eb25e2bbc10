package condition

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
	api.GET("/conditions", h.List)
	api.POST("/conditions", h.Add)
	api.PATCH("/conditions/:id/status", h.SetStatus)
	api.DELETE("/conditions/:id", h.Remove)
	api.GET("/users/:user_id/conditions", h.ListForPatient)
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
	conditions, total, err := h.svc.ListForPatient(c.Request().Context(), identity.UserID, clinician, patientID, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(conditions, total, p.Limit, p.Offset))
}

func (h *Handler) List(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	conditions, total, err := h.svc.ListForUser(c.Request().Context(), identity.UserID, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(conditions, total, p.Limit, p.Offset))
}

func (h *Handler) Add(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var cond Condition
	if err := c.Bind(&cond); err != nil {
		return apperror.New(apperror.Invalid, "malformed request body")
	}
	cond.UserID = identity.UserID
	if err := h.svc.Add(c.Request().Context(), &cond); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cond)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) SetStatus(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "invalid condition id")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return apperror.New(apperror.Invalid, "malformed request body")
	}
	cond, err := h.svc.SetStatus(c.Request().Context(), identity.UserID, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cond)
}

func (h *Handler) Remove(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "invalid condition id")
	}
	if err := h.svc.Remove(c.Request().Context(), identity.UserID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
