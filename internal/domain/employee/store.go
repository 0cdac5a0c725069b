package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `id, name, email, designation, department, created_at, updated_at`

func (s *Store) Create(ctx context.Context, name, email, passwordHash string) (*Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, email, password_hash)
    VALUES ($1,$2,$3)
    RETURNING `+employeeColumns+`
  `, name, email, passwordHash).Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Designation, &emp.Department,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE email = $1", email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

// CredentialsByEmail returns the employee plus the stored password hash.
func (s *Store) CredentialsByEmail(ctx context.Context, email string) (*Employee, string, error) {
	var emp Employee
	var hash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, designation, department, created_at, updated_at, password_hash
    FROM employees
    WHERE email = $1
  `, email).Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Designation, &emp.Department,
		&emp.CreatedAt, &emp.UpdatedAt, &hash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return &emp, hash, nil
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(
			&emp.ID, &emp.Name, &emp.Email, &emp.Designation, &emp.Department,
			&emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

// UpdateProfile changes the mutable profile fields. Email stays as
// registered.
func (s *Store) UpdateProfile(ctx context.Context, id, name, designation, department string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE employees
    SET name = $1, designation = $2, department = $3, updated_at = now()
    WHERE id = $4
    RETURNING `+employeeColumns+`
  `, name, designation, department, id)
	return scanEmployee(row)
}

func (s *Store) UpdateAvatar(ctx context.Context, id string, avatar []byte) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET avatar = $1, updated_at = now() WHERE id = $2", avatar, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Avatar(ctx context.Context, id string) ([]byte, error) {
	var avatar []byte
	err := s.DB.QueryRow(ctx, "SELECT avatar FROM employees WHERE id = $1", id).Scan(&avatar)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return avatar, nil
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Designation, &emp.Department,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}
