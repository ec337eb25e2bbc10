package admin

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medigram/medigram/internal/apperror"
	"github.com/medigram/medigram/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/admin/users/:user_id/promote", h.Promote)
	api.POST("/admin/doctors/:profile_id/approve", h.ApproveProfile)
	api.POST("/admin/locations/:location_id/approve", h.ApproveLocation)
}

func (h *Handler) Promote(c echo.Context) error {
	identity, err := auth.RequireAdmin(c, h.svc)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "malformed user id")
	}
	g, err := h.svc.Promote(c.Request().Context(), identity.UserID, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g)
}

func (h *Handler) ApproveProfile(c echo.Context) error {
	if _, err := auth.RequireAdmin(c, h.svc); err != nil {
		return err
	}
	profileID, err := uuid.Parse(c.Param("profile_id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "malformed profile id")
	}
	p, err := h.svc.ApproveProfile(c.Request().Context(), profileID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ApproveLocation(c echo.Context) error {
	if _, err := auth.RequireAdmin(c, h.svc); err != nil {
		return err
	}
	locationID, err := uuid.Parse(c.Param("location_id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "malformed location id")
	}
	l, err := h.svc.ApproveLocation(c.Request().Context(), locationID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}
