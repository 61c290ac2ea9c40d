package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	qservice "quiz_session_backend/internals/features/quiz/questions/service"
)

var (
	ErrNotFound            = errors.New("session not found")
	ErrAlreadyFinished     = errors.New("session already finished")
	ErrInvalidAnswers      = errors.New("invalid answers")
	ErrActiveSessionExists = errors.New("user already has an active session")
	ErrInvalidUsername     = errors.New("username is required")

	// Shared with the question store so one errors.Is check covers both.
	ErrStoreUnavailable = qservice.ErrStoreUnavailable
)

// Reason is the machine-readable cause of an answer rejection.
type Reason string

const (
	ReasonUnknownQuestion   Reason = "unknown_question"
	ReasonInvalidVariant    Reason = "invalid_variant"
	ReasonInvalidAnswerType Reason = "invalid_answer_type"
	ReasonDuplicateAnswer   Reason = "duplicate_answer"
)

// AnswerError describes the first offending answer of a submission.
// errors.Is(err, ErrInvalidAnswers) holds for every AnswerError.
type AnswerError struct {
	Reason            Reason
	SessionQuestionID uuid.UUID
	VariantID         uuid.UUID
	Detail            string
}

func (e *AnswerError) Error() string {
	msg := fmt.Sprintf("%s: %s (session_question_id=%s)", ErrInvalidAnswers.Error(), e.Reason, e.SessionQuestionID)
	if e.VariantID != uuid.Nil {
		msg += fmt.Sprintf(" variant_id=%s", e.VariantID)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *AnswerError) Is(target error) bool { return target == ErrInvalidAnswers }

func rejectAnswer(reason Reason, sqID uuid.UUID, detail string) *AnswerError {
	return &AnswerError{Reason: reason, SessionQuestionID: sqID, Detail: detail}
}

// isDomainError reports errors that must reach callers unwrapped.
func isDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrAlreadyFinished,
		ErrInvalidAnswers,
		ErrActiveSessionExists,
		ErrInvalidUsername,
		ErrStoreUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
