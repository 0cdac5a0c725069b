package event

import (
	"time"

	"attendance/internal/geo"
)

// Location is the authoritative place an event happens at.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

func (l Location) Point() geo.Point {
	return geo.Point{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Event is a scheduled attendance-taking occasion. StartTime and EndTime
// are HH:MM wall-clock strings bounding the window on the event date.
type Event struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Detail      string       `json:"detail"`
	Date        time.Time    `json:"date"`
	StartTime   string       `json:"stime"`
	EndTime     string       `json:"etime"`
	Location    Location     `json:"location"`
	Attendances []Attendance `json:"attendances"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Attendance is one mark made by an employee against an event. EmployeeID
// is a weak reference: the employee row may be gone by the time it is read.
type Attendance struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	MarkedAt   time.Time `json:"markedAt"`
}
