package devicekey

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
	api.GET("/devices", h.ListDevices)
	api.POST("/devices", h.EnrollDevice)
	api.DELETE("/devices/:id", h.RevokeDevice)
}

func (h *Handler) ListDevices(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	keys, err := h.svc.List(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, keys)
}

func (h *Handler) EnrollDevice(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	enrollment, err := h.svc.Enroll(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, enrollment)
}

func (h *Handler) RevokeDevice(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "invalid device id")
	}
	if err := h.svc.Revoke(c.Request().Context(), identity.UserID, deviceID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
