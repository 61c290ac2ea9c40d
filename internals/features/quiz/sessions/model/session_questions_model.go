// file: internals/features/quiz/sessions/model/session_questions_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	qmodel "quiz_session_backend/internals/features/quiz/questions/model"
)

// SessionQuestionModel is the row shape: question_type picks which of the two FKs is set.
type SessionQuestionModel struct {
	SessionQuestionID           uuid.UUID           `gorm:"column:session_question_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"session_question_id"`
	SessionQuestionSessionID    uuid.UUID           `gorm:"column:session_question_session_id;type:uuid;not null;index" json:"session_question_session_id"`
	SessionQuestionType         qmodel.QuestionKind `gorm:"column:session_question_type;type:varchar(2);not null" json:"session_question_type"`
	SessionQuestionMaQuestionID *uuid.UUID          `gorm:"column:session_question_ma_question_id;type:uuid" json:"session_question_ma_question_id,omitempty"`
	SessionQuestionTfQuestionID *uuid.UUID          `gorm:"column:session_question_tf_question_id;type:uuid" json:"session_question_tf_question_id,omitempty"`
	SessionQuestionPosition     int                 `gorm:"column:session_question_position;not null;default:0" json:"session_question_position"`
	SessionQuestionCreatedAt    time.Time           `gorm:"column:session_question_created_at;autoCreateTime" json:"session_question_created_at"`

	MaQuestion *qmodel.MaQuestionModel `gorm:"foreignKey:SessionQuestionMaQuestionID;references:MaQuestionID" json:"-"`
	TfQuestion *qmodel.TfQuestionModel `gorm:"foreignKey:SessionQuestionTfQuestionID;references:TfQuestionID" json:"-"`
}

func (SessionQuestionModel) TableName() string { return "session_questions" }

// SessionQuestion is one question instance of a session, either MA (with variants) or TF.
type SessionQuestion struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Position  int
	Question  qmodel.Question
}

func (sq SessionQuestion) Kind() qmodel.QuestionKind { return sq.Question.QuestionKind() }

func (sq SessionQuestion) MA() (*qmodel.MaQuestionModel, bool) {
	switch q := sq.Question.(type) {
	case *qmodel.MaQuestionModel:
		return q, q != nil
	case qmodel.MaQuestionModel:
		return &q, true
	}
	return nil, false
}

func (sq SessionQuestion) TF() (*qmodel.TfQuestionModel, bool) {
	switch q := sq.Question.(type) {
	case *qmodel.TfQuestionModel:
		return q, q != nil
	case qmodel.TfQuestionModel:
		return &q, true
	}
	return nil, false
}

// NewSessionQuestionRow builds the row for q with only the matching FK set.
func NewSessionQuestionRow(sessionID uuid.UUID, q qmodel.Question, position int) SessionQuestionModel {
	row := SessionQuestionModel{
		SessionQuestionID:        uuid.New(),
		SessionQuestionSessionID: sessionID,
		SessionQuestionType:      q.QuestionKind(),
		SessionQuestionPosition:  position,
	}
	id := q.QuestionID()
	switch q.QuestionKind() {
	case qmodel.QuestionKindMA:
		row.SessionQuestionMaQuestionID = &id
	case qmodel.QuestionKindTF:
		row.SessionQuestionTfQuestionID = &id
	}
	return row
}

// ToSessionQuestion resolves the discriminant against the preloaded question.
func (m *SessionQuestionModel) ToSessionQuestion() (SessionQuestion, error) {
	out := SessionQuestion{
		ID:        m.SessionQuestionID,
		SessionID: m.SessionQuestionSessionID,
		Position:  m.SessionQuestionPosition,
	}
	switch m.SessionQuestionType {
	case qmodel.QuestionKindMA:
		if m.MaQuestion == nil {
			return out, fmt.Errorf("session question %s: ma question not loaded", m.SessionQuestionID)
		}
		out.Question = m.MaQuestion
	case qmodel.QuestionKindTF:
		if m.TfQuestion == nil {
			return out, fmt.Errorf("session question %s: tf question not loaded", m.SessionQuestionID)
		}
		out.Question = m.TfQuestion
	default:
		return out, fmt.Errorf("session question %s: unknown type %q", m.SessionQuestionID, m.SessionQuestionType)
	}
	return out, nil
}
