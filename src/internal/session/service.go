package session

import (
	"context"
	"fmt"
	"pomodoro-api-svc/src/internal/cache"
	"pomodoro-api-svc/src/internal/models"
	"time"

	"github.com/sirupsen/logrus"
)

type Service interface {
	ListSessions(ctx context.Context, userID string) ([]*models.Session, error)
	GetSession(ctx context.Context, id int64, userID string) (*models.Session, error)
	CreateSession(ctx context.Context, userID string, req *CreateSessionRequest) (*models.Session, error)
	CompleteSession(ctx context.Context, id int64, userID string) error
	DeleteSession(ctx context.Context, id int64, userID string) error
}

// EventPublisher receives session lifecycle events.
type EventPublisher interface {
	PublishSessionEvent(event *models.SessionEvent) error
}

// CreateSessionRequest carries the client-supplied fields of a new session.
// Owner, start time and completion state are always set by the server.
type CreateSessionRequest struct {
	TaskName string `json:"taskName"`
	Duration int    `json:"duration"`
}

type sessionService struct {
	repository   Repository
	cacheService cache.Service
	publisher    EventPublisher
	now          func() time.Time
}

func NewSessionService(repository Repository, cacheService cache.Service, publisher EventPublisher) Service {
	return &sessionService{
		repository:   repository,
		cacheService: cacheService,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *sessionService) ListSessions(ctx context.Context, userID string) ([]*models.Session, error) {
	logrus.WithField("user_id", userID).Debug("Listing sessions")

	sessions, err := s.repository.FindSessions(ctx, userID, Filter{SortByStartDesc: true})
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to list sessions")
		return nil, err
	}

	return sessions, nil
}

func (s *sessionService) GetSession(ctx context.Context, id int64, userID string) (*models.Session, error) {
	session, err := s.repository.FindByID(ctx, id, userID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"session_id": id,
		}).Warn("Session lookup failed")
		return nil, err
	}

	return session, nil
}

func (s *sessionService) CreateSession(ctx context.Context, userID string, req *CreateSessionRequest) (*models.Session, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", models.ErrInvalidParams)
	}
	if req.Duration < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", models.ErrInvalidParams)
	}

	session := &models.Session{
		UserID:      userID,
		TaskName:    req.TaskName,
		StartTime:   s.now(),
		EndTime:     nil,
		Duration:    req.Duration,
		IsCompleted: false,
	}

	if err := s.repository.Insert(ctx, session); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to create session")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": session.ID,
		"task_name":  session.TaskName,
	}).Info("Session created")

	s.afterWrite(ctx, session, models.ActionSessionCreated)
	return session, nil
}

func (s *sessionService) CompleteSession(ctx context.Context, id int64, userID string) error {
	if err := s.repository.MarkCompleted(ctx, id, userID, s.now()); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"session_id": id,
		}).Warn("Failed to complete session")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": id,
	}).Info("Session completed")

	session, err := s.repository.FindByID(ctx, id, userID)
	if err != nil {
		session = &models.Session{ID: id, UserID: userID}
	}
	s.afterWrite(ctx, session, models.ActionSessionCompleted)
	return nil
}

func (s *sessionService) DeleteSession(ctx context.Context, id int64, userID string) error {
	if err := s.repository.Delete(ctx, id, userID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"session_id": id,
		}).Warn("Failed to delete session")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": id,
	}).Info("Session deleted")

	s.afterWrite(ctx, &models.Session{ID: id, UserID: userID}, models.ActionSessionDeleted)
	return nil
}

// afterWrite drops cached reports and publishes the event. Failures are logged only.
func (s *sessionService) afterWrite(ctx context.Context, session *models.Session, action string) {
	if err := s.cacheService.InvalidateUserStats(ctx, session.UserID); err != nil {
		logrus.WithError(err).WithField("user_id", session.UserID).Warn("Failed to invalidate cached statistics")
	}

	event := &models.SessionEvent{
		UserID:    session.UserID,
		SessionID: session.ID,
		Action:    action,
		TaskName:  session.TaskName,
		Duration:  session.Duration,
		Timestamp: s.now(),
	}
	if err := s.publisher.PublishSessionEvent(event); err != nil {
		logrus.WithError(err).WithField("session_id", session.ID).Warn("Failed to publish session event")
	}
}
