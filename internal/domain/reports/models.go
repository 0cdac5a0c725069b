package reports

import "time"

// Roster is the attendance sheet for one event, rows in the order the
// marks were made.
type Roster struct {
	EventID   string      `json:"eventId"`
	EventName string      `json:"eventName"`
	EventDate time.Time   `json:"eventDate"`
	StartTime string      `json:"stime"`
	EndTime   string      `json:"etime"`
	Address   string      `json:"address"`
	Rows      []RosterRow `json:"rows"`
}

// RosterRow joins one attendance mark with the employee profile. The
// employee reference is weak, so profile fields may be blank.
type RosterRow struct {
	EmployeeID  string    `json:"employeeId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Designation string    `json:"designation"`
	Department  string    `json:"department"`
	MarkedAt    time.Time `json:"markedAt"`
}
