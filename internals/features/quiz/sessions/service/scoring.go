package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	qmodel "quiz_session_backend/internals/features/quiz/questions/model"
	smodel "quiz_session_backend/internals/features/quiz/sessions/model"
)

/* =========================================================
   POLICY
========================================================= */

// ScoringPolicy decides what a correct question is worth.
// The same policy computes max_points and actual_points.
type ScoringPolicy interface {
	Name() string
	Weight(q qmodel.Question) int
}

// FlatPolicy: one point per correct question.
type FlatPolicy struct{}

func (FlatPolicy) Name() string               { return "flat" }
func (FlatPolicy) Weight(qmodel.Question) int { return 1 }

// WeightedPolicy: a correct question earns its points column.
type WeightedPolicy struct{}

func (WeightedPolicy) Name() string                 { return "weighted" }
func (WeightedPolicy) Weight(q qmodel.Question) int { return q.Weight() }

func PolicyByName(name string) (ScoringPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "flat":
		return FlatPolicy{}, nil
	case "weighted":
		return WeightedPolicy{}, nil
	}
	return nil, errors.Errorf("unknown scoring policy %q (want flat|weighted)", name)
}

/* =========================================================
   SCORING
========================================================= */

type Result struct {
	SessionQuestionID uuid.UUID           `json:"session_question_id"`
	Kind              qmodel.QuestionKind `json:"question_type"`
	Answered          bool                `json:"answered"`
	Correct           bool                `json:"correct"`
	Points            int                 `json:"points"`
}

func MaxPoints(policy ScoringPolicy, questions []smodel.SessionQuestion) int {
	total := 0
	for _, q := range questions {
		total += policy.Weight(q.Question)
	}
	return total
}

// IsCorrect: MA needs the exact set of correct variants (no subset, no superset);
// TF needs the stored boolean.
func IsCorrect(a CheckedAnswer) bool {
	switch a.Question.Kind() {
	case qmodel.QuestionKindMA:
		mq, ok := a.Question.MA()
		if !ok {
			return false
		}
		correct := mq.CorrectVariantIDs()
		picked := make(map[uuid.UUID]struct{}, len(a.Variants))
		for _, v := range a.Variants {
			picked[v] = struct{}{}
		}
		if len(picked) != len(correct) {
			return false
		}
		for v := range picked {
			if _, ok := correct[v]; !ok {
				return false
			}
		}
		return true

	case qmodel.QuestionKindTF:
		tq, ok := a.Question.TF()
		if !ok || a.Value == nil {
			return false
		}
		return *a.Value == tq.TfQuestionAnswer
	}
	return false
}

func Score(policy ScoringPolicy, a CheckedAnswer) Result {
	r := Result{
		SessionQuestionID: a.Question.ID,
		Kind:              a.Question.Kind(),
		Answered:          true,
	}
	if IsCorrect(a) {
		r.Correct = true
		r.Points = policy.Weight(a.Question.Question)
	}
	return r
}

// ScoreAll returns one Result per session question, in question order; unanswered ones earn 0.
func ScoreAll(policy ScoringPolicy, questions []smodel.SessionQuestion, answers []CheckedAnswer) ([]Result, int) {
	byQuestion := make(map[uuid.UUID]CheckedAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.Question.ID] = a
	}

	results := make([]Result, 0, len(questions))
	total := 0
	for _, q := range questions {
		a, ok := byQuestion[q.ID]
		if !ok {
			results = append(results, Result{SessionQuestionID: q.ID, Kind: q.Kind()})
			continue
		}
		r := Score(policy, a)
		total += r.Points
		results = append(results, r)
	}
	return results, total
}
