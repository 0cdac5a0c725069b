package event

import (
	"context"
	"strings"
	"time"

	"attendance/internal/geo"
)

type Service struct {
	Store  StoreAPI
	Engine *Engine

	// now is swapped out in tests.
	now func() time.Time
}

func NewService(store StoreAPI, engine *Engine) *Service {
	return &Service{Store: store, Engine: engine, now: time.Now}
}

type CreateInput struct {
	Name      string
	Detail    string
	Date      time.Time
	StartTime string
	EndTime   string
	Location  Location
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Event, error) {
	if _, _, err := ParseClock(input.StartTime); err != nil {
		return nil, err
	}
	if _, _, err := ParseClock(input.EndTime); err != nil {
		return nil, err
	}

	ev := &Event{
		Name:      strings.TrimSpace(input.Name),
		Detail:    strings.TrimSpace(input.Detail),
		Date:      input.Date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Location:  input.Location,
	}
	return s.Store.Insert(ctx, ev)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.Store.FindByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.Store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrEventNotFound
	}
	return nil
}

// List runs a validated dashboard query. The caller picks the sort: the
// admin dashboard reads date-ascending, the employee dashboard
// date-descending, and the default current-month view creation order.
func (s *Service) List(ctx context.Context, view View, allowedYears []string, sort Sort) ([]Event, error) {
	filter, err := BuildFilter(view, allowedYears)
	if err != nil {
		return nil, err
	}
	return s.Store.Find(ctx, filter, sort)
}

// ListDefault is the no-query dashboard view: the current month in the
// eligibility zone, in creation order.
func (s *Service) ListDefault(ctx context.Context) ([]Event, error) {
	now := s.now().In(s.Engine.Zone())
	filter := Filter{Year: now.Year(), Month: int(now.Month())}
	return s.Store.Find(ctx, filter, SortCreatedAsc)
}

// RecordAttendance evaluates eligibility for the event and, only on an
// accepted decision, appends the mark. Every other outcome leaves the
// event untouched.
func (s *Service) RecordAttendance(ctx context.Context, eventID, employeeID string, at geo.Point) (Decision, error) {
	ev, err := s.Store.FindByID(ctx, eventID)
	if err != nil {
		return DecisionUnknown, err
	}

	now := s.now()
	decision, err := s.Engine.Evaluate(ev, now, at)
	if err != nil {
		return DecisionUnknown, err
	}
	if !decision.Accepted() {
		return decision, nil
	}

	if _, err := s.Store.AppendAttendance(ctx, ev.ID, employeeID, now.In(s.Engine.Zone())); err != nil {
		return DecisionUnknown, err
	}
	return DecisionAccepted, nil
}
