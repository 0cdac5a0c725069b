package employee

import (
	"context"
	"strings"

	"attendance/internal/auth"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Register creates a self-service account. The email must be unused; the
// password is stored bcrypt-hashed.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	taken, err := s.Store.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.Store.Create(ctx, strings.TrimSpace(name), email, hash)
}

// Authenticate resolves an email/password pair to the employee. Wrong
// email and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Employee, error) {
	emp, hash, err := s.Store.CredentialsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.CheckPassword(hash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return emp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	return s.Store.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.Store.List(ctx)
}

// UpdateProfile applies profile edits and, when rawAvatar is non-empty,
// the PNG-normalized avatar in the same call.
func (s *Service) UpdateProfile(ctx context.Context, id, name, designation, department string, rawAvatar []byte) (*Employee, error) {
	emp, err := s.Store.UpdateProfile(ctx, id, strings.TrimSpace(name), strings.TrimSpace(designation), strings.TrimSpace(department))
	if err != nil {
		return nil, err
	}

	if len(rawAvatar) > 0 {
		avatar, err := NormalizeAvatar(rawAvatar)
		if err != nil {
			return nil, err
		}
		if err := s.Store.UpdateAvatar(ctx, id, avatar); err != nil {
			return nil, err
		}
	}
	return emp, nil
}

func (s *Service) Avatar(ctx context.Context, id string) ([]byte, error) {
	return s.Store.Avatar(ctx, id)
}
