package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	qmodel "quiz_session_backend/internals/features/quiz/questions/model"
	smodel "quiz_session_backend/internals/features/quiz/sessions/model"
)

// SubmittedAnswer is one answer as received from the client, not yet trusted.
type SubmittedAnswer struct {
	SessionQuestionID uuid.UUID
	// QuestionType is the kind the client claims ("ma" / "tf"); empty means not declared.
	QuestionType     string
	SelectedVariants []uuid.UUID
	// Answer is the raw decoded JSON value for TF questions (bool, or legacy 0/1).
	Answer any
}

// CheckedAnswer is a SubmittedAnswer resolved against its session question.
type CheckedAnswer struct {
	Question smodel.SessionQuestion
	// MA: selected variant ids, deduplicated, in submission order.
	Variants []uuid.UUID
	// TF: the submitted value.
	Value *bool
}

// ValidateAnswers checks every answer against the questions of sessionID and stops at the first bad one.
// It never writes; the returned error always matches ErrInvalidAnswers.
func ValidateAnswers(sessionID uuid.UUID, questions []smodel.SessionQuestion, answers []SubmittedAnswer) ([]CheckedAnswer, error) {
	byID := make(map[uuid.UUID]smodel.SessionQuestion, len(questions))
	for _, q := range questions {
		if q.SessionID == sessionID {
			byID[q.ID] = q
		}
	}

	seen := make(map[uuid.UUID]struct{}, len(answers))
	out := make([]CheckedAnswer, 0, len(answers))

	for _, a := range answers {
		sq, ok := byID[a.SessionQuestionID]
		if !ok {
			return nil, rejectAnswer(ReasonUnknownQuestion, a.SessionQuestionID, "question is not part of this session")
		}
		if _, dup := seen[a.SessionQuestionID]; dup {
			return nil, rejectAnswer(ReasonDuplicateAnswer, a.SessionQuestionID, "question answered more than once")
		}
		seen[a.SessionQuestionID] = struct{}{}

		if declared := strings.ToLower(strings.TrimSpace(a.QuestionType)); declared != "" && declared != string(sq.Kind()) {
			return nil, rejectAnswer(ReasonInvalidAnswerType, sq.ID,
				fmt.Sprintf("declared %q but question is %q", declared, sq.Kind()))
		}

		checked, err := checkOne(sq, a)
		if err != nil {
			return nil, err
		}
		out = append(out, checked)
	}
	return out, nil
}

func checkOne(sq smodel.SessionQuestion, a SubmittedAnswer) (CheckedAnswer, error) {
	switch sq.Kind() {
	case qmodel.QuestionKindMA:
		mq, _ := sq.MA()
		if a.Answer != nil {
			return CheckedAnswer{}, rejectAnswer(ReasonInvalidAnswerType, sq.ID, "multiple-answer question takes selected_variants")
		}
		variants := make([]uuid.UUID, 0, len(a.SelectedVariants))
		picked := make(map[uuid.UUID]struct{}, len(a.SelectedVariants))
		for _, vid := range a.SelectedVariants {
			if mq == nil || !mq.HasVariant(vid) {
				e := rejectAnswer(ReasonInvalidVariant, sq.ID, "variant does not belong to question")
				e.VariantID = vid
				return CheckedAnswer{}, e
			}
			if _, dup := picked[vid]; dup {
				continue
			}
			picked[vid] = struct{}{}
			variants = append(variants, vid)
		}
		return CheckedAnswer{Question: sq, Variants: variants}, nil

	case qmodel.QuestionKindTF:
		if len(a.SelectedVariants) > 0 {
			return CheckedAnswer{}, rejectAnswer(ReasonInvalidAnswerType, sq.ID, "true/false question takes answer")
		}
		b, ok := asBool(a.Answer)
		if !ok {
			return CheckedAnswer{}, rejectAnswer(ReasonInvalidAnswerType, sq.ID, fmt.Sprintf("answer must be boolean, got %T", a.Answer))
		}
		return CheckedAnswer{Question: sq, Value: &b}, nil
	}
	return CheckedAnswer{}, rejectAnswer(ReasonInvalidAnswerType, sq.ID, "unsupported question type")
}

// asBool accepts JSON booleans and the legacy integer encoding 0/1.
func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case *bool:
		if t == nil {
			return false, false
		}
		return *t, true
	case float64:
		return intBool(int64(t), t == float64(int64(t)))
	case int:
		return intBool(int64(t), true)
	case int64:
		return intBool(t, true)
	}
	return false, false
}

func intBool(n int64, integral bool) (bool, bool) {
	if !integral {
		return false, false
	}
	switch n {
	case 0:
		return false, true
	case 1:
		return true, true
	}
	return false, false
}
