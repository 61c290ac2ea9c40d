// file: internals/features/quiz/sessions/dto/sessions_dto.go
package dto

import (
	"github.com/google/uuid"

	ssvc "quiz_session_backend/internals/features/quiz/sessions/service"
)

/* ===================== REQUESTS ===================== */

type CreateSessionRequest struct {
	Username string `json:"username" validate:"required,max=100"`
}

type SelectedVariantRequest struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
}

// AnswerRequest: question_id is the session question id returned by GET /sessions/:id.
// MA → selected_variants, TF → answer (true/false, legacy 1/0).
type AnswerRequest struct {
	QuestionID       uuid.UUID                `json:"question_id" validate:"required"`
	QuestionType     string                   `json:"question_type" validate:"required,oneof=ma tf"`
	SelectedVariants []SelectedVariantRequest `json:"selected_variants" validate:"omitempty,dive"`
	Answer           any                      `json:"answer"`
}

type SubmitAnswersRequest struct {
	Answers []AnswerRequest `json:"answers" validate:"required,dive"`
}

/* ===================== RESPONSES ===================== */

type CreateSessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	MaxPoints int       `json:"max_points"`
}

/* ===================== CONVERTERS ===================== */

func (r *SubmitAnswersRequest) ToSubmittedAnswers() []ssvc.SubmittedAnswer {
	out := make([]ssvc.SubmittedAnswer, 0, len(r.Answers))
	for _, a := range r.Answers {
		sa := ssvc.SubmittedAnswer{
			SessionQuestionID: a.QuestionID,
			QuestionType:      a.QuestionType,
			Answer:            a.Answer,
		}
		for _, v := range a.SelectedVariants {
			sa.SelectedVariants = append(sa.SelectedVariants, v.VariantID)
		}
		out = append(out, sa)
	}
	return out
}

func ToCreateSessionResponse(c *ssvc.Created) CreateSessionResponse {
	return CreateSessionResponse{SessionID: c.SessionID, MaxPoints: c.MaxPoints}
}
