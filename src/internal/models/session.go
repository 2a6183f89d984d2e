package models

import "time"

// Session is one tracked work interval. Duration is reported by the client in minutes
// and is not derived from StartTime/EndTime.
type Session struct {
	ID          int64      `json:"id" bson:"_id"`
	UserID      string     `json:"userId" bson:"user_id"`
	TaskName    string     `json:"taskName" bson:"task_name"`
	StartTime   time.Time  `json:"startTime" bson:"start_time"`
	EndTime     *time.Time `json:"endTime" bson:"end_time"`
	Duration    int        `json:"duration" bson:"duration"`
	IsCompleted bool       `json:"isCompleted" bson:"is_completed"`
}

// IsFinished reports whether the session counts as a pomodoro.
func (s *Session) IsFinished() bool {
	return s.IsCompleted && s.EndTime != nil
}
