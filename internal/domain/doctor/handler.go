package doctor

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
	api.POST("/doctors/profile", h.CreateProfile)
	api.GET("/doctors/profile", h.MyProfile)
	api.POST("/doctors/profile/locations", h.AddLocation)
	api.GET("/doctors/profile/locations", h.ListLocations)
	api.GET("/doctors/:doctor_id/profile", h.PublicProfile)
}

func (h *Handler) CreateProfile(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var p Profile
	if err := c.Bind(&p); err != nil {
		return apperror.New(apperror.Invalid, "malformed request body")
	}
	p.UserID = identity.UserID
	if err := h.svc.CreateProfile(c.Request().Context(), &p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) MyProfile(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	p, err := h.svc.ProfileByUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) PublicProfile(c echo.Context) error {
	if _, err := auth.CurrentUser(c); err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("doctor_id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "invalid doctor id")
	}
	p, err := h.svc.PublicProfileByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) AddLocation(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var l PracticeLocation
	if err := c.Bind(&l); err != nil {
		return apperror.New(apperror.Invalid, "malformed request body")
	}
	if err := h.svc.AddLocation(c.Request().Context(), identity.UserID, &l); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) ListLocations(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	locations, err := h.svc.ListLocations(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, locations)
}
