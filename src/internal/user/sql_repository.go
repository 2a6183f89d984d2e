package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pomodoro-api-svc/src/clients"
	"pomodoro-api-svc/src/internal/models"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const (
	userColumns       = "id, username, email, password_hash, created_at"
	pqUniqueViolation = "23505"
)

type sqlRepository struct {
	db *clients.SQLDB
}

func NewSQLUserRepository(db *clients.SQLDB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Create(ctx context.Context, user *User) error {
	query := "INSERT INTO users (" + userColumns + ") VALUES (?, ?, ?, ?, ?)"

	_, err := r.db.DB.ExecContext(ctx, r.db.Rebind(query),
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateRecord
		}
		logrus.WithError(err).WithField("username", user.Username).Error("Failed to insert user")
		return fmt.Errorf("%w: %v", models.ErrDatabaseInsert, err)
	}

	return nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return r.findOne(ctx, query, id)
}

func (r *sqlRepository) GetByUsernameOrEmail(ctx context.Context, login string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = ? OR email = ?"
	return r.findOne(ctx, query, login, login)
}

func (r *sqlRepository) findOne(ctx context.Context, query string, args ...any) (*User, error) {
	var user User
	err := r.db.DB.QueryRowContext(ctx, r.db.Rebind(query), args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		logrus.WithError(err).Error("Failed to find user")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}
