package event

import (
	"context"
	"time"
)

type StoreAPI interface {
	Insert(ctx context.Context, ev *Event) (*Event, error)
	FindByID(ctx context.Context, id string) (*Event, error)
	Find(ctx context.Context, filter Filter, sort Sort) ([]Event, error)
	Save(ctx context.Context, ev *Event) error
	Delete(ctx context.Context, id string) (int64, error)
	AppendAttendance(ctx context.Context, eventID, employeeID string, markedAt time.Time) (Attendance, error)
}
