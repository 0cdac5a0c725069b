package employee

import "errors"

var (
	ErrNotFound           = errors.New("employee not found")
	ErrEmailTaken         = errors.New("email address already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBadImage           = errors.New("unreadable image upload")
)
