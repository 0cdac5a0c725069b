package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"attendance/internal/auth"
	"attendance/internal/config"
)

// Seed ensures the configured admin account exists. Admins are never
// created through the API, only seeded.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM admins WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, "INSERT INTO admins (email, password_hash) VALUES ($1, $2)", email, hash)
	return err
}
