package employeeshandler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"attendance/internal/auth"
	"attendance/internal/domain/employee"
	"attendance/internal/transport/http/api"
	"attendance/internal/transport/http/middleware"
	"attendance/internal/transport/http/shared"
)

type Handler struct {
	Employees      *employee.Service
	MaxAvatarBytes int64
}

func NewHandler(employees *employee.Service, maxAvatarBytes int64) *Handler {
	return &Handler{Employees: employees, MaxAvatarBytes: maxAvatarBytes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/me", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleEmployee))
		r.Get("/profile", h.handleOwnProfile)
		r.Put("/profile", h.handleUpdateProfile)
		r.Get("/avatar", h.handleOwnAvatar)
	})
	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Get("/", h.handleListEmployees)
		r.Get("/{employeeID}", h.handleGetEmployee)
		r.Get("/{employeeID}/avatar", h.handleGetAvatar)
	})
}

func (h *Handler) handleOwnProfile(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetPrincipal(r.Context())

	emp, err := h.Employees.Get(r.Context(), principal.AccountID)
	if err != nil {
		h.failEmployee(w, err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}

// handleUpdateProfile takes a multipart form so the avatar can travel
// with the text fields. Email is not editable; it is the login
// identifier.
func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetPrincipal(r.Context())

	if err := r.ParseMultipartForm(h.MaxAvatarBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "expected a multipart form", requestID)
		return
	}

	name := r.FormValue("name")
	designation := r.FormValue("designation")
	department := r.FormValue("department")

	v := shared.NewValidator()
	v.Required("name", name, "please provide your name")
	if v.Reject(w, requestID) {
		return
	}

	rawAvatar, ok := h.readAvatar(w, r, requestID)
	if !ok {
		return
	}

	emp, err := h.Employees.UpdateProfile(r.Context(), principal.AccountID, name, designation, department, rawAvatar)
	if err != nil {
		if errors.Is(err, employee.ErrBadImage) {
			api.Fail(w, http.StatusBadRequest, "bad_image", "could not read the uploaded image", requestID)
			return
		}
		h.failEmployee(w, err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}

// readAvatar pulls the optional avatar file out of the form. Only jpg,
// jpeg and png uploads are taken; anything else is rejected outright.
func (h *Handler) readAvatar(w http.ResponseWriter, r *http.Request, requestID string) ([]byte, bool) {
	file, header, err := r.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "could not read avatar upload", requestID)
		return nil, false
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".jpg", ".jpeg", ".png":
	default:
		api.Fail(w, http.StatusBadRequest, "bad_image", "avatar must be a jpg, jpeg or png file", requestID)
		return nil, false
	}

	raw, err := io.ReadAll(io.LimitReader(file, h.MaxAvatarBytes+1))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "could not read avatar upload", requestID)
		return nil, false
	}
	if int64(len(raw)) > h.MaxAvatarBytes {
		api.Fail(w, http.StatusRequestEntityTooLarge, "avatar_too_large", "avatar exceeds the upload limit", requestID)
		return nil, false
	}
	return raw, true
}

func (h *Handler) handleOwnAvatar(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	h.serveAvatar(w, r, principal.AccountID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	employees, err := h.Employees.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", requestID)
		return
	}
	if employees == nil {
		employees = []employee.Employee{}
	}
	api.Success(w, employees, requestID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	emp, err := h.Employees.Get(r.Context(), employeeID)
	if err != nil {
		h.failEmployee(w, err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) handleGetAvatar(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.employeeID(w, r)
	if !ok {
		return
	}
	h.serveAvatar(w, r, employeeID)
}

func (h *Handler) serveAvatar(w http.ResponseWriter, r *http.Request, employeeID string) {
	requestID := middleware.GetRequestID(r.Context())

	avatar, err := h.Employees.Avatar(r.Context(), employeeID)
	if err != nil {
		h.failEmployee(w, err, requestID)
		return
	}
	if len(avatar) == 0 {
		api.Fail(w, http.StatusNotFound, "not_found", "no avatar uploaded", requestID)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(avatar)
}

func (h *Handler) employeeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "employeeID")
	if uuid.Validate(id) != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "malformed employee id", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return id, true
}

func (h *Handler) failEmployee(w http.ResponseWriter, err error, requestID string) {
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	api.Fail(w, http.StatusInternalServerError, "employee_error", "something went wrong", requestID)
}
