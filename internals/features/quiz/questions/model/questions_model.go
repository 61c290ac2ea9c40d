// file: internals/features/quiz/questions/model/questions_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type QuestionKind string

const (
	QuestionKindMA QuestionKind = "ma"
	QuestionKindTF QuestionKind = "tf"
)

func (k QuestionKind) Valid() bool {
	return k == QuestionKindMA || k == QuestionKindTF
}

// Question is implemented only by MaQuestionModel and TfQuestionModel.
type Question interface {
	QuestionKind() QuestionKind
	QuestionID() uuid.UUID
	// Weight is the question's value under weighted scoring (always >= 1).
	Weight() int

	sealed()
}

/* =========================================================
   MA (multiple answer)
========================================================= */

type MaQuestionModel struct {
	MaQuestionID         uuid.UUID `gorm:"column:ma_question_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"ma_question_id"`
	MaQuestionText       string    `gorm:"column:ma_question_text;type:text;not null" json:"ma_question_text"`
	MaQuestionIsMultiple bool      `gorm:"column:ma_question_is_multiple;not null;default:false" json:"ma_question_is_multiple"`
	MaQuestionPoints     int       `gorm:"column:ma_question_points;not null;default:1" json:"ma_question_points"`
	MaQuestionCreatedAt  time.Time `gorm:"column:ma_question_created_at;autoCreateTime" json:"ma_question_created_at"`

	Variants []MaQuestionVariantModel `gorm:"foreignKey:MaQuestionVariantQuestionID;references:MaQuestionID;constraint:OnDelete:CASCADE" json:"variants"`
}

func (MaQuestionModel) TableName() string { return "ma_questions" }

type MaQuestionVariantModel struct {
	MaQuestionVariantID         uuid.UUID `gorm:"column:ma_question_variant_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"ma_question_variant_id"`
	MaQuestionVariantQuestionID uuid.UUID `gorm:"column:ma_question_variant_question_id;type:uuid;not null;index" json:"ma_question_variant_question_id"`
	MaQuestionVariantText       string    `gorm:"column:ma_question_variant_text;type:text;not null" json:"ma_question_variant_text"`
	MaQuestionVariantIsCorrect  bool      `gorm:"column:ma_question_variant_is_correct;not null;default:false" json:"ma_question_variant_is_correct"`
	MaQuestionVariantPosition   int       `gorm:"column:ma_question_variant_position;not null;default:0" json:"ma_question_variant_position"`
}

func (MaQuestionVariantModel) TableName() string { return "ma_question_variants" }

func (MaQuestionModel) QuestionKind() QuestionKind { return QuestionKindMA }
func (m MaQuestionModel) QuestionID() uuid.UUID    { return m.MaQuestionID }
func (m MaQuestionModel) Weight() int              { return normalizeWeight(m.MaQuestionPoints) }
func (MaQuestionModel) sealed()                    {}

// CorrectVariantIDs returns the set of variant ids flagged is_correct.
func (m MaQuestionModel) CorrectVariantIDs() map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(m.Variants))
	for _, v := range m.Variants {
		if v.MaQuestionVariantIsCorrect {
			out[v.MaQuestionVariantID] = struct{}{}
		}
	}
	return out
}

func (m MaQuestionModel) HasVariant(id uuid.UUID) bool {
	for _, v := range m.Variants {
		if v.MaQuestionVariantID == id {
			return true
		}
	}
	return false
}

/* =========================================================
   TF (true / false)
========================================================= */

type TfQuestionModel struct {
	TfQuestionID        uuid.UUID `gorm:"column:tf_question_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"tf_question_id"`
	TfQuestionText      string    `gorm:"column:tf_question_text;type:text;not null" json:"tf_question_text"`
	TfQuestionAnswer    bool      `gorm:"column:tf_question_answer;not null" json:"tf_question_answer"`
	TfQuestionPoints    int       `gorm:"column:tf_question_points;not null;default:1" json:"tf_question_points"`
	TfQuestionCreatedAt time.Time `gorm:"column:tf_question_created_at;autoCreateTime" json:"tf_question_created_at"`
}

func (TfQuestionModel) TableName() string { return "tf_questions" }

func (TfQuestionModel) QuestionKind() QuestionKind { return QuestionKindTF }
func (m TfQuestionModel) QuestionID() uuid.UUID    { return m.TfQuestionID }
func (m TfQuestionModel) Weight() int              { return normalizeWeight(m.TfQuestionPoints) }
func (TfQuestionModel) sealed()                    {}

func normalizeWeight(p int) int {
	if p < 1 {
		return 1
	}
	return p
}

// MaQuestions / TfQuestions lift concrete slices into the sealed interface.
func MaQuestions(in []MaQuestionModel) []Question {
	out := make([]Question, 0, len(in))
	for i := range in {
		out = append(out, &in[i])
	}
	return out
}

func TfQuestions(in []TfQuestionModel) []Question {
	out := make([]Question, 0, len(in))
	for i := range in {
		out = append(out, &in[i])
	}
	return out
}
