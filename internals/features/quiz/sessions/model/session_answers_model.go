// file: internals/features/quiz/sessions/model/session_answers_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionAnswerModel: at most one per session question (UNIQUE).
// MA answers keep their selection in session_answer_variants, TF answers in session_answer_value.
type SessionAnswerModel struct {
	SessionAnswerID                uuid.UUID `gorm:"column:session_answer_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"session_answer_id"`
	SessionAnswerSessionID         uuid.UUID `gorm:"column:session_answer_session_id;type:uuid;not null;index" json:"session_answer_session_id"`
	SessionAnswerSessionQuestionID uuid.UUID `gorm:"column:session_answer_session_question_id;type:uuid;not null;uniqueIndex" json:"session_answer_session_question_id"`
	SessionAnswerValue             *bool     `gorm:"column:session_answer_value" json:"session_answer_value,omitempty"`
	SessionAnswerIsCorrect         bool      `gorm:"column:session_answer_is_correct;not null;default:false" json:"session_answer_is_correct"`
	SessionAnswerPointsAwarded     int       `gorm:"column:session_answer_points_awarded;not null;default:0" json:"session_answer_points_awarded"`
	SessionAnswerAnsweredAt        time.Time `gorm:"column:session_answer_answered_at;not null" json:"session_answer_answered_at"`

	Variants []SessionAnswerVariantModel `gorm:"foreignKey:SessionAnswerVariantAnswerID;references:SessionAnswerID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

func (SessionAnswerModel) TableName() string { return "session_answers" }

type SessionAnswerVariantModel struct {
	SessionAnswerVariantAnswerID  uuid.UUID `gorm:"column:session_answer_variant_answer_id;type:uuid;primaryKey" json:"session_answer_variant_answer_id"`
	SessionAnswerVariantVariantID uuid.UUID `gorm:"column:session_answer_variant_variant_id;type:uuid;primaryKey" json:"session_answer_variant_variant_id"`
}

func (SessionAnswerVariantModel) TableName() string { return "session_answer_variants" }

func (m *SessionAnswerModel) SelectedVariantIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m.Variants))
	for _, v := range m.Variants {
		out = append(out, v.SessionAnswerVariantVariantID)
	}
	return out
}
