package purchase

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medigram/medigram/internal/apperror"
	"github.com/medigram/medigram/internal/platform/auth"
	"github.com/medigram/medigram/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/purchases", h.List)
	api.POST("/purchases", h.Add)
}

func (h *Handler) List(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	purchases, total, err := h.svc.ListForUser(c.Request().Context(), identity.UserID, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(purchases, total, p.Limit, p.Offset))
}

func (h *Handler) Add(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var p Purchase
	if err := c.Bind(&p); err != nil {
		return apperror.New(apperror.Invalid, "malformed request body")
	}
	p.UserID = identity.UserID
	if err := h.svc.Add(c.Request().Context(), &p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}
