package eventshandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"attendance/internal/auth"
	"attendance/internal/domain/event"
	"attendance/internal/domain/reports"
	"attendance/internal/geo"
	"attendance/internal/transport/http/api"
	"attendance/internal/transport/http/middleware"
	"attendance/internal/transport/http/shared"
)

type Handler struct {
	Events  *event.Service
	Reports *reports.Service

	// Year range lower bounds differ per dashboard.
	AdminMinYear    int
	EmployeeMinYear int
}

func NewHandler(events *event.Service, reportsSvc *reports.Service, adminMinYear, employeeMinYear int) *Handler {
	return &Handler{Events: events, Reports: reportsSvc, AdminMinYear: adminMinYear, EmployeeMinYear: employeeMinYear}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/", h.handleCreate)
		r.Route("/{eventID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/", h.handleDelete)
			r.With(middleware.RequireRole(auth.RoleEmployee)).Post("/attendance", h.handleMarkAttendance)
			r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/attendance", h.handleRoster)
			r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/attendance/export", h.handleRosterExport)
		})
	})
}

// handleList serves both dashboards. An explicit ?option=month|year query
// is validated against the caller's year range and sorted by event date,
// oldest first for admins and newest first for employees. Without an
// option the current month is served in creation order for everyone.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	minYear := h.EmployeeMinYear
	explicitSort := event.SortDateDesc
	if principal.Role == auth.RoleAdmin {
		minYear = h.AdminMinYear
		explicitSort = event.SortDateAsc
	}

	option := r.URL.Query().Get("option")
	if option == "" {
		events, err := h.Events.ListDefault(r.Context())
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "event_list_failed", "failed to list events", requestID)
			return
		}
		api.Success(w, h.listPayload(events, event.DefaultView(time.Now().In(h.Events.Engine.Zone())), minYear), requestID)
		return
	}

	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	view := event.View{By: option, Month: month, Year: r.URL.Query().Get("year")}
	allowed := event.AllowedYears(minYear, time.Now())

	events, err := h.Events.List(r.Context(), view, allowed, explicitSort)
	if err != nil {
		if errors.Is(err, event.ErrInvalidOperation) {
			api.Fail(w, http.StatusBadRequest, "invalid_operation", "Invalid Operation!", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "event_list_failed", "failed to list events", requestID)
		return
	}
	api.Success(w, h.listPayload(events, view, minYear), requestID)
}

func (h *Handler) listPayload(events []event.Event, view event.View, minYear int) map[string]any {
	if events == nil {
		events = []event.Event{}
	}
	return map[string]any{
		"events": events,
		"viewBy": view.By,
		"month":  view.Month,
		"year":   view.Year,
		"years":  event.AllowedYears(minYear, time.Now()),
	}
}

type createRequest struct {
	Name      string  `json:"name"`
	Detail    string  `json:"detail"`
	Date      string  `json:"date"`
	StartTime string  `json:"stime"`
	EndTime   string  `json:"etime"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "please provide the event name")
	v.Required("detail", payload.Detail, "please provide the event detail")
	v.Required("address", payload.Address, "please select a location")
	if payload.Latitude == 0 && payload.Longitude == 0 {
		v.Add("location", "please select a location")
	}
	v.Clock("stime", payload.StartTime)
	v.Clock("etime", payload.EndTime)
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Events.Create(r.Context(), event.CreateInput{
		Name:      payload.Name,
		Detail:    payload.Detail,
		Date:      date,
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
		Location: event.Location{
			Latitude:  payload.Latitude,
			Longitude: payload.Longitude,
			Address:   payload.Address,
		},
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "event_create_failed", "failed to create event", requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	ev, err := h.Events.Get(r.Context(), eventID)
	if err != nil {
		h.failEvent(w, err, requestID)
		return
	}
	api.Success(w, ev, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	if err := h.Events.Delete(r.Context(), eventID); err != nil {
		h.failEvent(w, err, requestID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, requestID)
}

type markRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (h *Handler) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetPrincipal(r.Context())

	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	var payload markRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	decision, err := h.Events.RecordAttendance(r.Context(), eventID, principal.AccountID, geo.Point{
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	})
	if err != nil {
		h.failEvent(w, err, requestID)
		return
	}

	// Rejections are decisions, not errors: they come back 200 with the
	// reason attached.
	api.Success(w, map[string]any{
		"accepted": decision.Accepted(),
		"code":     decision.Code(),
		"message":  decision.Message(),
	}, requestID)
}

func (h *Handler) handleRoster(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	roster, err := h.Reports.Roster(r.Context(), eventID)
	if err != nil {
		h.failEvent(w, err, requestID)
		return
	}
	api.Success(w, roster, requestID)
}

func (h *Handler) handleRosterExport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	roster, err := h.Reports.Roster(r.Context(), eventID)
	if err != nil {
		h.failEvent(w, err, requestID)
		return
	}

	switch r.URL.Query().Get("format") {
	case "pdf":
		out, err := reports.BuildPDF(roster)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to build export", requestID)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "attendance-"+eventID+".pdf"))
		_, _ = w.Write(out)
	case "xlsx":
		out, err := reports.BuildXLSX(roster)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to build export", requestID)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "attendance-"+eventID+".xlsx"))
		_, _ = w.Write(out)
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_format", "format must be pdf or xlsx", requestID)
	}
}

func (h *Handler) eventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "eventID")
	if uuid.Validate(id) != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "malformed event id", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return id, true
}

func (h *Handler) failEvent(w http.ResponseWriter, err error, requestID string) {
	if errors.Is(err, event.ErrEventNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "event not found", requestID)
		return
	}
	api.Fail(w, http.StatusInternalServerError, "event_error", "something went wrong", requestID)
}
