package user

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medigram/medigram/internal/apperror"
	"github.com/medigram/medigram/internal/platform/auth"
	"github.com/medigram/medigram/internal/platform/consent"
)

type Handler struct {
	svc      *Service
	nonces   *consent.NonceCache
	resolver *auth.ClinicianResolver
}

func NewHandler(svc *Service, nonces *consent.NonceCache, resolver *auth.ClinicianResolver) *Handler {
	return &Handler{svc: svc, nonces: nonces, resolver: resolver}
}

// RegisterRoutes mounts the account endpoints. public carries no
// authentication; api runs behind the bearer middleware.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)

	api.POST("/logout", h.Logout)
	api.GET("/request-nonce", h.RequestNonce)
	api.GET("/users/me", h.Me)
	api.GET("/users/me/details", h.GetDetails)
	api.PUT("/users/me/details", h.PutDetails)
	api.GET("/users/:user_id", h.GetUser)
	api.GET("/users/:user_id/details", h.GetUserDetails)
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.New(apperror.Invalid, "malformed request body")
	}
	u, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.New(apperror.Invalid, "malformed request body")
	}
	result, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type logoutRequest struct {
	DeviceID *uuid.UUID `json:"device_id,omitempty"`
}

func (h *Handler) Logout(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req logoutRequest
	// body is optional
	_ = c.Bind(&req)
	if err := h.svc.Logout(c.Request().Context(), identity, req.DeviceID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type nonceResponse struct {
	Nonce          string    `json:"nonce"`
	ExpirationDate time.Time `json:"expiration_date"`
}

func (h *Handler) RequestNonce(c echo.Context) error {
	if _, err := auth.CurrentUser(c); err != nil {
		return err
	}
	nonce, expiresAt, err := h.nonces.Issue()
	if err != nil {
		return apperror.Wrap(apperror.Internal, "issuing nonce", err)
	}
	return c.JSON(http.StatusOK, nonceResponse{Nonce: nonce, ExpirationDate: expiresAt})
}

func (h *Handler) Me(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	u, err := h.svc.Get(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) GetDetails(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	d, err := h.svc.GetDetail(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) GetUser(c echo.Context) error {
	if _, err := auth.CurrentUser(c); err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "invalid user id")
	}
	u, err := h.svc.GetPublic(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) GetUserDetails(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	clinician, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "invalid user id")
	}
	d, err := h.svc.GetDetailFor(c.Request().Context(), identity.UserID, clinician, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) PutDetails(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var d Detail
	if err := c.Bind(&d); err != nil {
		return apperror.New(apperror.Invalid, "malformed request body")
	}
	d.UserID = identity.UserID
	if err := h.svc.PutDetail(c.Request().Context(), &d); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}
