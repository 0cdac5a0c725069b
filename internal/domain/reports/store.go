package reports

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"attendance/internal/domain/event"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Roster(ctx context.Context, eventID string) (*Roster, error) {
	roster := Roster{EventID: eventID}
	err := s.DB.QueryRow(ctx, `
    SELECT name, date, stime, etime, address
    FROM events
    WHERE id = $1
  `, eventID).Scan(&roster.EventName, &roster.EventDate, &roster.StartTime, &roster.EndTime, &roster.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, event.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT a.employee_id,
           COALESCE(e.name, ''),
           COALESCE(e.email, ''),
           COALESCE(e.designation, ''),
           COALESCE(e.department, ''),
           a.marked_at
    FROM attendances a
    LEFT JOIN employees e ON e.id = a.employee_id
    WHERE a.event_id = $1
    ORDER BY a.seq
  `, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row RosterRow
		if err := rows.Scan(&row.EmployeeID, &row.Name, &row.Email, &row.Designation, &row.Department, &row.MarkedAt); err != nil {
			return nil, err
		}
		roster.Rows = append(roster.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &roster, nil
}
