package models

import "time"

type SessionEvent struct {
	UserID    string    `json:"user_id"`
	SessionID int64     `json:"session_id"`
	Action    string    `json:"action"`
	TaskName  string    `json:"task_name,omitempty"`
	Duration  int       `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

// Session event action constants
const (
	ActionSessionCreated   = "session_created"
	ActionSessionCompleted = "session_completed"
	ActionSessionDeleted   = "session_deleted"
)
