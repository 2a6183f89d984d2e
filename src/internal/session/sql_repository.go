package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pomodoro-api-svc/src/clients"
	"pomodoro-api-svc/src/internal/models"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const sessionColumns = "id, user_id, task_name, start_time, end_time, duration, is_completed"

type sqlRepository struct {
	db *clients.SQLDB
}

func NewSQLSessionRepository(db *clients.SQLDB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) FindSessions(ctx context.Context, userID string, filter Filter) ([]*models.Session, error) {
	preds := []string{"user_id = ?"}
	args := []any{userID}

	if filter.CompletedOnly {
		preds = append(preds, "is_completed = ?")
		args = append(args, true)
	}
	if filter.EndFrom != nil {
		preds = append(preds, "end_time >= ?")
		args = append(args, filter.EndFrom.UTC())
	}
	if filter.EndTo != nil {
		preds = append(preds, "end_time < ?")
		args = append(args, filter.EndTo.UTC())
	}
	if filter.TaskName != "" {
		preds = append(preds, "task_name = ?")
		args = append(args, filter.TaskName)
	}

	query := "SELECT " + sessionColumns + " FROM pomodoro_sessions WHERE " + strings.Join(preds, " AND ")
	if filter.SortByStartDesc {
		query += " ORDER BY start_time DESC, id DESC"
	}

	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to query sessions")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	sessions := make([]*models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			logrus.WithError(err).Error("Failed to scan session")
			return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}

	return sessions, nil
}

func (r *sqlRepository) FindByID(ctx context.Context, id int64, userID string) (*models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM pomodoro_sessions WHERE id = ? AND user_id = ?"

	session, err := scanSession(r.db.DB.QueryRowContext(ctx, r.db.Rebind(query), id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrSessionNotFound
		}
		logrus.WithError(err).WithField("session_id", id).Error("Failed to get session")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}

	return session, nil
}

func (r *sqlRepository) Insert(ctx context.Context, session *models.Session) error {
	query := `INSERT INTO pomodoro_sessions (user_id, task_name, start_time, end_time, duration, is_completed)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`

	var endTime sql.NullTime
	if session.EndTime != nil {
		endTime = sql.NullTime{Time: session.EndTime.UTC(), Valid: true}
	}

	err := r.db.DB.QueryRowContext(ctx, r.db.Rebind(query),
		session.UserID,
		session.TaskName,
		session.StartTime.UTC(),
		endTime,
		session.Duration,
		session.IsCompleted,
	).Scan(&session.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", session.UserID).Error("Failed to insert session")
		return fmt.Errorf("%w: %v", models.ErrDatabaseInsert, err)
	}

	return nil
}

func (r *sqlRepository) MarkCompleted(ctx context.Context, id int64, userID string, endTime time.Time) error {
	query := `UPDATE pomodoro_sessions SET end_time = ?, is_completed = ?
		WHERE id = ? AND user_id = ? AND is_completed = ?`

	result, err := r.db.DB.ExecContext(ctx, r.db.Rebind(query), endTime.UTC(), true, id, userID, false)
	if err != nil {
		logrus.WithError(err).WithField("session_id", id).Error("Failed to complete session")
		return fmt.Errorf("%w: %v", models.ErrDatabaseUpdate, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrDatabaseUpdate, err)
	}

	if affected == 0 {
		if _, err := r.FindByID(ctx, id, userID); err != nil {
			return err
		}
		return models.ErrSessionAlreadyCompleted
	}

	return nil
}

func (r *sqlRepository) Delete(ctx context.Context, id int64, userID string) error {
	query := "DELETE FROM pomodoro_sessions WHERE id = ? AND user_id = ?"

	result, err := r.db.DB.ExecContext(ctx, r.db.Rebind(query), id, userID)
	if err != nil {
		logrus.WithError(err).WithField("session_id", id).Error("Failed to delete session")
		return fmt.Errorf("%w: %v", models.ErrDatabaseDelete, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrDatabaseDelete, err)
	}
	if affected == 0 {
		return models.ErrSessionNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var session models.Session
	var endTime sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.TaskName,
		&session.StartTime,
		&endTime,
		&session.Duration,
		&session.IsCompleted,
	)
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		t := endTime.Time
		session.EndTime = &t
	}

	return &session, nil
}
