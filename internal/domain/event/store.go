package event

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const eventColumns = `id, name, detail, date, stime, etime, latitude, longitude, address, created_at, updated_at`

func (s *Store) Insert(ctx context.Context, ev *Event) (*Event, error) {
	out := *ev
	err := s.DB.QueryRow(ctx, `
    INSERT INTO events (name, detail, date, stime, etime, latitude, longitude, address)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id, created_at, updated_at
  `, ev.Name, ev.Detail, ev.Date, ev.StartTime, ev.EndTime,
		ev.Location.Latitude, ev.Location.Longitude, ev.Location.Address,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*Event, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)

	var ev Event
	if err := scanEvent(row, &ev); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	attendances, err := s.listAttendances(ctx, id)
	if err != nil {
		return nil, err
	}
	ev.Attendances = attendances
	return &ev, nil
}

func (s *Store) Find(ctx context.Context, filter Filter, sort Sort) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE EXTRACT(YEAR FROM date)::int = $1`
	args := []any{filter.Year}
	if filter.Month != 0 {
		query += ` AND EXTRACT(MONTH FROM date)::int = $2`
		args = append(args, filter.Month)
	}
	query += ` ORDER BY ` + orderClause(sort)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := scanEvent(rows, &ev); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachAttendances(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// Save fully replaces the stored event, inserting it if new.
func (s *Store) Save(ctx context.Context, ev *Event) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO events (id, name, detail, date, stime, etime, latitude, longitude, address)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    ON CONFLICT (id) DO UPDATE SET
      name = EXCLUDED.name,
      detail = EXCLUDED.detail,
      date = EXCLUDED.date,
      stime = EXCLUDED.stime,
      etime = EXCLUDED.etime,
      latitude = EXCLUDED.latitude,
      longitude = EXCLUDED.longitude,
      address = EXCLUDED.address,
      updated_at = now()
  `, ev.ID, ev.Name, ev.Detail, ev.Date, ev.StartTime, ev.EndTime,
		ev.Location.Latitude, ev.Location.Longitude, ev.Location.Address)
	return err
}

// Delete hard-deletes the event and its attendance rows. Employee rows are
// never touched.
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// AppendAttendance adds one mark at the end of the event's attendance list.
// A single insert, so concurrent marks cannot clobber each other. There is
// no uniqueness check: an employee can be recorded more than once.
func (s *Store) AppendAttendance(ctx context.Context, eventID, employeeID string, markedAt time.Time) (Attendance, error) {
	att := Attendance{EmployeeID: employeeID, MarkedAt: markedAt}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendances (event_id, employee_id, marked_at)
    VALUES ($1,$2,$3)
    RETURNING id
  `, eventID, employeeID, markedAt).Scan(&att.ID)
	if err != nil {
		return Attendance{}, err
	}
	return att, nil
}

func (s *Store) listAttendances(ctx context.Context, eventID string) ([]Attendance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, marked_at
    FROM attendances
    WHERE event_id = $1
    ORDER BY seq
  `, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attendance
	for rows.Next() {
		var att Attendance
		if err := rows.Scan(&att.ID, &att.EmployeeID, &att.MarkedAt); err != nil {
			return nil, err
		}
		out = append(out, att)
	}
	return out, rows.Err()
}

func (s *Store) attachAttendances(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]string, 0, len(events))
	index := make(map[string]*Event, len(events))
	for i := range events {
		ids = append(ids, events[i].ID)
		index[events[i].ID] = &events[i]
	}

	rows, err := s.DB.Query(ctx, `
    SELECT event_id, id, employee_id, marked_at
    FROM attendances
    WHERE event_id = ANY($1)
    ORDER BY seq
  `, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		var att Attendance
		if err := rows.Scan(&eventID, &att.ID, &att.EmployeeID, &att.MarkedAt); err != nil {
			return err
		}
		if ev, ok := index[eventID]; ok {
			ev.Attendances = append(ev.Attendances, att)
		}
	}
	return rows.Err()
}

func orderClause(sort Sort) string {
	switch sort {
	case SortDateDesc:
		return "date DESC"
	case SortCreatedAsc:
		return "created_at ASC"
	default:
		return "date ASC"
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner, ev *Event) error {
	return row.Scan(
		&ev.ID, &ev.Name, &ev.Detail, &ev.Date, &ev.StartTime, &ev.EndTime,
		&ev.Location.Latitude, &ev.Location.Longitude, &ev.Location.Address,
		&ev.CreatedAt, &ev.UpdatedAt,
	)
}
