package consultation

import (
	"net/http"
	"time"

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
	api.POST("/consultations", h.Create)
	api.GET("/consultations", h.List)
	api.GET("/consultations/:id", h.Get)
	api.GET("/doctor/consultations", h.ListAuthored)
	api.GET("/users/:user_id/consultations", h.ListPatientChart)
	api.POST("/prescriptions/:id/purchase", h.MarkPurchased)
	api.PUT("/prescriptions/:id/reminder", h.SetReminder)
}

func (h *Handler) Create(c echo.Context) error {
	clinician, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.New(apperror.Invalid, "malformed request body")
	}
	created, err := h.svc.Create(c.Request().Context(), clinician, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) List(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	consultations, total, err := h.svc.ListForPatient(c.Request().Context(), identity.UserID, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(consultations, total, p.Limit, p.Offset))
}

func (h *Handler) ListAuthored(c echo.Context) error {
	clinician, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	consultations, total, err := h.svc.ListAuthored(c.Request().Context(), clinician, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(consultations, total, p.Limit, p.Offset))
}

func (h *Handler) ListPatientChart(c echo.Context) error {
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
	consultations, total, err := h.svc.ListPatientChart(c.Request().Context(), identity.UserID, clinician, patientID, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(consultations, total, p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "invalid consultation id")
	}
	consultation, err := h.svc.Get(c.Request().Context(), identity.UserID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, consultation)
}

func (h *Handler) MarkPurchased(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "invalid prescription id")
	}
	p, err := h.svc.MarkPurchased(c.Request().Context(), identity.UserID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

type reminderRequest struct {
	At time.Time `json:"at"`
}

func (h *Handler) SetReminder(c echo.Context) error {
	identity, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.New(apperror.Invalid, "invalid prescription id")
	}
	var req reminderRequest
	if err := c.Bind(&req); err != nil {
		return apperror.New(apperror.Invalid, "malformed request body")
	}
	p, err := h.svc.SetReminder(c.Request().Context(), identity.UserID, id, req.At)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
