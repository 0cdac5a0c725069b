package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pquerna/otp/totp"

	"attendance/internal/auth"
	"attendance/internal/domain/employee"
	"attendance/internal/transport/http/api"
	"attendance/internal/transport/http/middleware"
	"attendance/internal/transport/http/shared"
)

type Handler struct {
	DB              *pgxpool.Pool
	Employees       *employee.Service
	Secret          string
	TokenTTL        time.Duration
	AllowSelfSignup bool
}

func NewHandler(db *pgxpool.Pool, employees *employee.Service, secret string, tokenTTL time.Duration, allowSelfSignup bool) *Handler {
	return &Handler{DB: db, Employees: employees, Secret: secret, TokenTTL: tokenTTL, AllowSelfSignup: allowSelfSignup}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/employee/register", h.handleEmployeeRegister)
		r.Post("/employee/login", h.handleEmployeeLogin)
		r.Post("/admin/login", h.handleAdminLogin)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/admin/mfa/setup", h.handleMFASetup)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/admin/mfa/enable", h.handleMFAEnable)
	})
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

var (
	emailPattern        = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	alphanumericPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// Login identifiers are either an email address or a bare alphanumeric
// employee ID.
func validLoginID(value string) bool {
	return emailPattern.MatchString(value) || alphanumericPattern.MatchString(value)
}

func (h *Handler) handleEmployeeRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if !h.AllowSelfSignup {
		api.Fail(w, http.StatusForbidden, "signup_disabled", "self registration is disabled", requestID)
		return
	}

	var payload registerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "please provide the employee name")
	v.Required("email", payload.Email, "please provide an email or employee ID")
	v.Required("password", payload.Password, "please provide a password")
	if payload.Password != payload.ConfirmPassword {
		v.Add("confirmPassword", "passwords do not match")
	}
	if payload.Email != "" && !validLoginID(payload.Email) {
		v.Add("email", "must be an email address or alphanumeric ID")
	}
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Employees.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, employee.ErrEmailTaken) {
			api.Fail(w, http.StatusConflict, "email_taken", "email address exists, use another", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "register_failed", "unable to register", requestID)
		return
	}

	token, err := h.issueToken(emp.ID, emp.Email, auth.RoleEmployee)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}
	api.Created(w, map[string]any{"token": token, "employee": emp}, requestID)
}

func (h *Handler) handleEmployeeLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "please provide an email or employee ID")
	v.Required("password", payload.Password, "please provide a password")
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Employees.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, employee.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "incorrect email or password", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "login_failed", "unable to login", requestID)
		return
	}

	token, err := h.issueToken(emp.ID, emp.Email, auth.RoleEmployee)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}
	api.Success(w, map[string]any{"token": token, "employee": emp}, requestID)
}

func (h *Handler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	var id, hash, mfaSecret string
	var mfaEnabled bool
	err := h.DB.QueryRow(r.Context(), `
    SELECT id, password_hash, mfa_enabled, mfa_secret
    FROM admins
    WHERE email = $1
  `, payload.Email).Scan(&id, &hash, &mfaEnabled, &mfaSecret)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "incorrect email or password", requestID)
		return
	}

	if err := auth.CheckPassword(hash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "incorrect email or password", requestID)
		return
	}

	if mfaEnabled {
		if payload.MFACode == "" {
			api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", requestID)
			return
		}
		if mfaSecret == "" || !totp.Validate(payload.MFACode, mfaSecret) {
			api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", requestID)
			return
		}
	}

	token, err := h.issueToken(id, payload.Email, auth.RoleAdmin)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}
	api.Success(w, map[string]any{"token": token, "admin": map[string]string{"id": id, "email": payload.Email}}, requestID)
}

func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetPrincipal(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "attendance",
		AccountName: principal.Email,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_error", "failed to generate mfa secret", requestID)
		return
	}

	if _, err := h.DB.Exec(r.Context(), `
    UPDATE admins SET mfa_secret = $1, mfa_enabled = false WHERE id = $2
  `, key.Secret(), principal.AccountID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_error", "failed to store mfa secret", requestID)
		return
	}

	api.Success(w, map[string]string{"secret": key.Secret(), "url": key.URL()}, requestID)
}

func (h *Handler) handleMFAEnable(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetPrincipal(r.Context())

	var payload mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Code == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "mfa code required", requestID)
		return
	}

	var secret string
	err := h.DB.QueryRow(r.Context(), "SELECT mfa_secret FROM admins WHERE id = $1", principal.AccountID).Scan(&secret)
	if errors.Is(err, pgx.ErrNoRows) || secret == "" {
		api.Fail(w, http.StatusBadRequest, "mfa_not_setup", "run mfa setup first", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_error", "failed to load mfa secret", requestID)
		return
	}

	if !totp.Validate(payload.Code, secret) {
		api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", requestID)
		return
	}

	if _, err := h.DB.Exec(r.Context(), "UPDATE admins SET mfa_enabled = true WHERE id = $1", principal.AccountID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_error", "failed to enable mfa", requestID)
		return
	}
	api.Success(w, map[string]bool{"enabled": true}, requestID)
}

func (h *Handler) issueToken(accountID, email, role string) (string, error) {
	return auth.GenerateToken(h.Secret, auth.Claims{AccountID: accountID, Email: email, Role: role}, h.TokenTTL)
}
