// file: internals/features/quiz/questions/dto/questions_dto.go
package dto

import (
	"github.com/google/uuid"

	qmodel "quiz_session_backend/internals/features/quiz/questions/model"
)

/* ===================== RESPONSES (admin / debug) ===================== */

type MaVariantResponse struct {
	ID        uuid.UUID `json:"id"`
	Variant   string    `json:"variant"`
	IsCorrect bool      `json:"is_correct"`
}

type MaQuestionResponse struct {
	ID         uuid.UUID           `json:"id"`
	Text       string              `json:"text"`
	IsMultiple bool                `json:"is_multiple"`
	Points     int                 `json:"points"`
	Variants   []MaVariantResponse `json:"variants"`
}

type TfQuestionResponse struct {
	ID     uuid.UUID `json:"id"`
	Text   string    `json:"text"`
	Answer bool      `json:"answer"`
	Points int       `json:"points"`
}

/* ===================== CONVERTERS ===================== */

func ToMaQuestionResponse(m *qmodel.MaQuestionModel) MaQuestionResponse {
	vs := make([]MaVariantResponse, 0, len(m.Variants))
	for _, v := range m.Variants {
		vs = append(vs, MaVariantResponse{
			ID:        v.MaQuestionVariantID,
			Variant:   v.MaQuestionVariantText,
			IsCorrect: v.MaQuestionVariantIsCorrect,
		})
	}
	return MaQuestionResponse{
		ID:         m.MaQuestionID,
		Text:       m.MaQuestionText,
		IsMultiple: m.MaQuestionIsMultiple,
		Points:     m.MaQuestionPoints,
		Variants:   vs,
	}
}

func ToMaQuestionResponses(rows []qmodel.MaQuestionModel) []MaQuestionResponse {
	out := make([]MaQuestionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToMaQuestionResponse(&rows[i]))
	}
	return out
}

func ToTfQuestionResponses(rows []qmodel.TfQuestionModel) []TfQuestionResponse {
	out := make([]TfQuestionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, TfQuestionResponse{
			ID:     r.TfQuestionID,
			Text:   r.TfQuestionText,
			Answer: r.TfQuestionAnswer,
			Points: r.TfQuestionPoints,
		})
	}
	return out
}
