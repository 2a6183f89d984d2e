package session

import (
	"context"
	"errors"
	"fmt"
	"pomodoro-api-svc/src/clients"
	"pomodoro-api-svc/src/internal/models"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter narrows FindSessions. EndFrom/EndTo form a half-open range on end time.
type Filter struct {
	CompletedOnly   bool
	EndFrom         *time.Time
	EndTo           *time.Time
	TaskName        string
	SortByStartDesc bool
}

type Repository interface {
	FindSessions(ctx context.Context, userID string, filter Filter) ([]*models.Session, error)
	FindByID(ctx context.Context, id int64, userID string) (*models.Session, error)
	Insert(ctx context.Context, session *models.Session) error
	MarkCompleted(ctx context.Context, id int64, userID string, endTime time.Time) error
	Delete(ctx context.Context, id int64, userID string) error
}

type repository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewSessionRepository(db *clients.MongoDB, collectionName, counterCollection string) Repository {
	return &repository{
		collection: db.Database.Collection(collectionName),
		counters:   db.Database.Collection(counterCollection),
	}
}

// EnsureIndexes creates the indexes the range queries rely on.
func EnsureIndexes(ctx context.Context, db *clients.MongoDB, collectionName string) error {
	_, err := db.Database.Collection(collectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "end_time", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "start_time", Value: -1}}},
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to create session indexes")
		return err
	}
	return nil
}

func (r *repository) FindSessions(ctx context.Context, userID string, filter Filter) ([]*models.Session, error) {
	query := bson.M{"user_id": userID}

	if filter.CompletedOnly {
		query["is_completed"] = true
	}

	if filter.EndFrom != nil || filter.EndTo != nil {
		endTime := bson.M{"$ne": nil}
		if filter.EndFrom != nil {
			endTime["$gte"] = filter.EndFrom.UTC()
		}
		if filter.EndTo != nil {
			endTime["$lt"] = filter.EndTo.UTC()
		}
		query["end_time"] = endTime
	}

	if filter.TaskName != "" {
		query["task_name"] = filter.TaskName
	}

	opts := options.Find()
	if filter.SortByStartDesc {
		opts.SetSort(bson.D{{Key: "start_time", Value: -1}})
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to find sessions")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	sessions := make([]*models.Session, 0)
	for cursor.Next(ctx) {
		var session models.Session
		if err := cursor.Decode(&session); err != nil {
			logrus.WithError(err).Error("Failed to decode session")
			return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
		}
		sessions = append(sessions, &session)
	}

	if err := cursor.Err(); err != nil {
		logrus.WithError(err).Error("Cursor error")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   len(sessions),
	}).Debug("Retrieved sessions")

	return sessions, nil
}

func (r *repository) FindByID(ctx context.Context, id int64, userID string) (*models.Session, error) {
	var session models.Session
	filter := bson.M{"_id": id, "user_id": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrSessionNotFound
		}
		logrus.WithError(err).WithField("session_id", id).Error("Failed to get session")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}

	return &session, nil
}

func (r *repository) Insert(ctx context.Context, session *models.Session) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	session.ID = id

	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		logrus.WithError(err).WithField("user_id", session.UserID).Error("Failed to insert session")
		return fmt.Errorf("%w: %v", models.ErrDatabaseInsert, err)
	}

	return nil
}

// nextID hands out sequential integer ids from the counters collection.
func (r *repository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": r.collection.Name()},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		logrus.WithError(err).Error("Failed to allocate session id")
		return 0, fmt.Errorf("%w: %v", models.ErrDatabaseInsert, err)
	}

	return counter.Seq, nil
}

func (r *repository) MarkCompleted(ctx context.Context, id int64, userID string, endTime time.Time) error {
	filter := bson.M{
		"_id":          id,
		"user_id":      userID,
		"is_completed": false,
	}

	update := bson.M{
		"$set": bson.M{
			"end_time":     endTime.UTC(),
			"is_completed": true,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logrus.WithError(err).WithField("session_id", id).Error("Failed to complete session")
		return fmt.Errorf("%w: %v", models.ErrDatabaseUpdate, err)
	}

	if result.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, id, userID); err != nil {
			return err
		}
		return models.ErrSessionAlreadyCompleted
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		logrus.WithError(err).WithField("session_id", id).Error("Failed to delete session")
		return fmt.Errorf("%w: %v", models.ErrDatabaseDelete, err)
	}

	if result.DeletedCount == 0 {
		return models.ErrSessionNotFound
	}

	return nil
}
