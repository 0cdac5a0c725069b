package eventshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"attendance/internal/auth"
	"attendance/internal/domain/event"
	"attendance/internal/geo"
	"attendance/internal/requestctx"
	"attendance/internal/transport/http/middleware"
)

type fakeStore struct {
	events   map[string]*event.Event
	lastSort event.Sort
	appended []event.Attendance
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: make(map[string]*event.Event)}
}

func (f *fakeStore) Insert(_ context.Context, ev *event.Event) (*event.Event, error) {
	ev.ID = uuid.NewString()
	ev.CreatedAt = time.Now()
	ev.UpdatedAt = ev.CreatedAt
	f.events[ev.ID] = ev
	return ev, nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*event.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, event.ErrEventNotFound
	}
	return ev, nil
}

func (f *fakeStore) Find(_ context.Context, _ event.Filter, sort event.Sort) ([]event.Event, error) {
	f.lastSort = sort
	var out []event.Event
	for _, ev := range f.events {
		out = append(out, *ev)
	}
	return out, nil
}

func (f *fakeStore) Save(_ context.Context, ev *event.Event) error {
	f.events[ev.ID] = ev
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := f.events[id]; !ok {
		return 0, nil
	}
	delete(f.events, id)
	return 1, nil
}

func (f *fakeStore) AppendAttendance(_ context.Context, eventID, employeeID string, markedAt time.Time) (event.Attendance, error) {
	mark := event.Attendance{ID: uuid.NewString(), EmployeeID: employeeID, MarkedAt: markedAt}
	f.appended = append(f.appended, mark)
	ev := f.events[eventID]
	ev.Attendances = append(ev.Attendances, mark)
	return mark, nil
}

func asPrincipal(p requestctx.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestctx.WithPrincipal(r.Context(), p)))
		})
	}
}

func newTestRouter(t *testing.T, store *fakeStore, principal *requestctx.Principal) chi.Router {
	t.Helper()
	engine := event.NewEngine(time.UTC, 500, func(_, _ geo.Point) float64 { return 0 })
	h := NewHandler(event.NewService(store, engine), nil, 2000, 2018)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if principal != nil {
		r.Use(asPrincipal(*principal))
	}
	h.RegisterRoutes(r)
	return r
}

func decodeEnvelope(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestListRequiresAuth(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil)

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/events", nil))

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusUnauthorized)
	}
}

func TestListSortDependsOnRole(t *testing.T) {
	year := time.Now().Format("2006")
	url := "/events?option=month&month=6&year=" + year

	tests := []struct {
		role string
		want event.Sort
	}{
		{auth.RoleAdmin, event.SortDateAsc},
		{auth.RoleEmployee, event.SortDateDesc},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			store := newFakeStore()
			r := newTestRouter(t, store, &requestctx.Principal{AccountID: uuid.NewString(), Role: tt.role})

			res := httptest.NewRecorder()
			r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, url, nil))

			if res.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
			}
			if store.lastSort != tt.want {
				t.Fatalf("sort = %v, want %v", store.lastSort, tt.want)
			}
		})
	}
}

func TestListDefaultViewUsesCreationOrder(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(t, store, &requestctx.Principal{AccountID: uuid.NewString(), Role: auth.RoleAdmin})

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/events", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}
	if store.lastSort != event.SortCreatedAsc {
		t.Fatalf("sort = %v, want %v", store.lastSort, event.SortCreatedAsc)
	}
}

func TestListRejectsOutOfRangeQueries(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"unknown option", "/events?option=week&month=6&year=2024"},
		{"month out of range", "/events?option=month&month=13&year=2024"},
		{"year below employee floor", "/events?option=year&year=2017"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, newFakeStore(), &requestctx.Principal{AccountID: uuid.NewString(), Role: auth.RoleEmployee})

			res := httptest.NewRecorder()
			r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if res.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", res.Code, http.StatusBadRequest)
			}
			body := decodeEnvelope(t, res)
			errObj, _ := body["error"].(map[string]any)
			if errObj["message"] != "Invalid Operation!" {
				t.Fatalf("message = %v, want Invalid Operation!", errObj["message"])
			}
		})
	}
}

func TestAdminSeesYearsEmployeeDoesNot(t *testing.T) {
	// The admin picker reaches back to 2000, the employee picker to 2018.
	store := newFakeStore()
	r := newTestRouter(t, store, &requestctx.Principal{AccountID: uuid.NewString(), Role: auth.RoleAdmin})

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/events?option=year&year=2005", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("admin status = %d, body %s", res.Code, res.Body.String())
	}

	r = newTestRouter(t, store, &requestctx.Principal{AccountID: uuid.NewString(), Role: auth.RoleEmployee})
	res = httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/events?option=year&year=2005", nil))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("employee status = %d, want %d", res.Code, http.StatusBadRequest)
	}
}

func TestCreateValidatesPayload(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(t, store, &requestctx.Principal{AccountID: uuid.NewString(), Role: auth.RoleAdmin})

	payload := `{"name":"","date":"not-a-date","stime":"9:00","etime":"17:00"}`
	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(payload)))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusBadRequest)
	}
	if len(store.events) != 0 {
		t.Fatalf("event stored despite invalid payload")
	}
}

func TestCreateRequiresAdmin(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), &requestctx.Principal{AccountID: uuid.NewString(), Role: auth.RoleEmployee})

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{}`)))

	if res.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusForbidden)
	}
}

func TestCreateAndFetchEvent(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(t, store, &requestctx.Principal{AccountID: uuid.NewString(), Role: auth.RoleAdmin})

	payload := `{
		"name": "Town Hall",
		"detail": "Quarterly all hands",
		"date": "2026-09-15",
		"stime": "09:00",
		"etime": "17:00",
		"latitude": 12.9716,
		"longitude": 77.5946,
		"address": "HQ Auditorium"
	}`
	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(payload)))

	if res.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", res.Code, res.Body.String())
	}
	body := decodeEnvelope(t, res)
	data, _ := body["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("missing event id in %v", body)
	}

	res = httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/events/"+id, nil))
	if res.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", res.Code, res.Body.String())
	}
}

func TestGetRejectsMalformedID(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), &requestctx.Principal{AccountID: uuid.NewString(), Role: auth.RoleAdmin})

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/events/not-a-uuid", nil))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusBadRequest)
	}
}

func TestDeleteMissingEventIsNotFound(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), &requestctx.Principal{AccountID: uuid.NewString(), Role: auth.RoleAdmin})

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodDelete, "/events/"+uuid.NewString(), nil))

	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusNotFound)
	}
}

func seedEvent(store *fakeStore, date time.Time) string {
	ev := &event.Event{
		ID:        uuid.NewString(),
		Name:      "Standup",
		Date:      date,
		StartTime: "00:00",
		EndTime:   "23:59",
		Location:  event.Location{Latitude: 12.9716, Longitude: 77.5946},
	}
	store.events[ev.ID] = ev
	return ev.ID
}

func TestMarkAttendanceRejectionIsStillOK(t *testing.T) {
	store := newFakeStore()
	id := seedEvent(store, time.Now().UTC().AddDate(0, 0, -7))
	r := newTestRouter(t, store, &requestctx.Principal{AccountID: uuid.NewString(), Role: auth.RoleEmployee})

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/events/"+id+"/attendance", strings.NewReader(`{"latitude":12.9716,"longitude":77.5946}`)))

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}
	body := decodeEnvelope(t, res)
	data, _ := body["data"].(map[string]any)
	if accepted, _ := data["accepted"].(bool); accepted {
		t.Fatalf("past event accepted: %v", data)
	}
	if data["message"] == "" {
		t.Fatalf("missing rejection message: %v", data)
	}
	if len(store.appended) != 0 {
		t.Fatalf("rejection appended a mark")
	}
}

func TestMarkAttendanceAppends(t *testing.T) {
	store := newFakeStore()
	id := seedEvent(store, time.Now().UTC())
	employeeID := uuid.NewString()
	r := newTestRouter(t, store, &requestctx.Principal{AccountID: employeeID, Role: auth.RoleEmployee})

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/events/"+id+"/attendance", strings.NewReader(`{"latitude":12.9716,"longitude":77.5946}`)))

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}
	body := decodeEnvelope(t, res)
	data, _ := body["data"].(map[string]any)
	if accepted, _ := data["accepted"].(bool); !accepted {
		t.Fatalf("in-window mark rejected: %v", data)
	}
	if len(store.appended) != 1 || store.appended[0].EmployeeID != employeeID {
		t.Fatalf("appended = %+v, want one mark by %s", store.appended, employeeID)
	}
}

func TestMarkAttendanceRequiresEmployeeRole(t *testing.T) {
	store := newFakeStore()
	id := seedEvent(store, time.Now().UTC())
	r := newTestRouter(t, store, &requestctx.Principal{AccountID: uuid.NewString(), Role: auth.RoleAdmin})

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/events/"+id+"/attendance", strings.NewReader(`{"latitude":1,"longitude":1}`)))

	if res.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusForbidden)
	}
}
