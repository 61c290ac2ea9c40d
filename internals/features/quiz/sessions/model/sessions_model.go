// file: internals/features/quiz/sessions/model/sessions_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionState string

const (
	SessionStateCreated    SessionState = "created"
	SessionStateInProgress SessionState = "in_progress"
	SessionStateFinished   SessionState = "finished"
)

type SessionModel struct {
	SessionID           uuid.UUID  `gorm:"column:session_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	SessionUsername     string     `gorm:"column:session_username;type:varchar(100);not null" json:"session_username"`
	SessionMaxPoints    int        `gorm:"column:session_max_points;not null;default:0" json:"session_max_points"`
	SessionActualPoints int        `gorm:"column:session_actual_points;not null;default:0" json:"session_actual_points"`
	SessionIsFinished   bool       `gorm:"column:session_is_finished;not null;default:false" json:"session_is_finished"`
	SessionCreatedAt    time.Time  `gorm:"column:session_created_at;autoCreateTime" json:"session_created_at"`
	SessionFinishedAt   *time.Time `gorm:"column:session_finished_at" json:"session_finished_at,omitempty"`
}

func (SessionModel) TableName() string { return "sessions" }

// State: finished is terminal; a session without attached questions is still "created".
func (m *SessionModel) State(questionCount int) SessionState {
	switch {
	case m.SessionIsFinished:
		return SessionStateFinished
	case questionCount > 0:
		return SessionStateInProgress
	default:
		return SessionStateCreated
	}
}
