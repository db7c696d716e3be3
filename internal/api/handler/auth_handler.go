package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medical-records-api/internal/api/metrics"
	"github.com/medrec/medical-records-api/internal/core/domain"
	"github.com/medrec/medical-records-api/internal/core/ports"
)

// AuthHandler handles registration, login and profile lookup.
type AuthHandler struct {
	authService ports.AuthService
	audit       ports.AuditSink
}

func NewAuthHandler(authService ports.AuthService, audit ports.AuditSink) *AuthHandler {
	return &AuthHandler{authService: authService, audit: audit}
}

// enqueueAudit drops the event when no sink is configured.
func (h *AuthHandler) enqueueAudit(event ports.AuditEvent) {
	if h.audit == nil {
		return
	}
	h.audit.Enqueue(event)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

type patientRequest struct {
	Name        string `json:"name" validate:"required"`
	Age         int    `json:"age" validate:"gte=0,lte=150"`
	Address     string `json:"address" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type registerRequest struct {
	User    credentialsRequest `json:"user"`
	Patient patientRequest     `json:"patient"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a patient record and its owning user account.
//
// @Summary      Register a new patient user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User credentials and patient demographics"
// @Success      201   {object}  authResponse
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, token, err := h.authService.RegisterUser(c.Request().Context(), req.User.Username, req.User.Password, ports.PatientInput{
		Name:        req.Patient.Name,
		Age:         req.Patient.Age,
		Address:     req.Patient.Address,
		PhoneNumber: req.Patient.PhoneNumber,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(domain.RoleUser).Inc()
	h.enqueueAudit(ports.AuditEvent{Actor: user.Username, Action: "register", PatientID: deref(user.PatientID), Occurred: time.Now().UTC()})

	return c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
}

// RegisterAdmin creates a bare admin account. Admin-gated at the router.
//
// @Summary      Register an admin account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Admin credentials"
// @Success      201   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /auth/register-admin [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, token, err := h.authService.RegisterAdmin(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(domain.RoleAdmin).Inc()
	h.enqueueAudit(ports.AuditEvent{Actor: user.Username, Action: "register_admin", Occurred: time.Now().UTC()})

	return c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		h.enqueueAudit(ports.AuditEvent{Actor: req.Username, Action: "login_failed", Occurred: time.Now().UTC()})
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.enqueueAudit(ports.AuditEvent{Actor: user.Username, Action: "login", PatientID: deref(user.PatientID), Occurred: time.Now().UTC()})

	return c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

// Profile returns the authenticated user's record with its linked patient.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func deref(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
