package employee

import "time"

// Employee is a self-registered account. Email doubles as the login
// identifier and cannot change after registration. The avatar is stored
// PNG-normalized and served separately, never inlined in JSON.
type Employee struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Designation string    `json:"designation"`
	Department  string    `json:"department"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
