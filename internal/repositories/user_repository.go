package repositories

import (
	"context"

	"parish-backend/internal/models"
)

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users(id, username, name, password_hash, is_active, created_at)
		 VALUES($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.Name, u.PasswordHash, u.IsActive, u.CreatedAt)
	return err
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, name, password_hash, is_active, created_at
		 FROM users WHERE lower(username) = lower($1)`, username).
		Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
