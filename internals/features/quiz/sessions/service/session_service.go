// file: internals/features/quiz/sessions/service/session_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	qmodel "quiz_session_backend/internals/features/quiz/questions/model"
	smodel "quiz_session_backend/internals/features/quiz/sessions/model"
)

// QuestionSampler is the slice of the question store a session needs.
type QuestionSampler interface {
	SampleMaQuestions(ctx context.Context, n int) ([]qmodel.MaQuestionModel, error)
	SampleTfQuestions(ctx context.Context, n int) ([]qmodel.TfQuestionModel, error)
}

type Options struct {
	MaPerSession int
	TfPerSession int
	Policy       ScoringPolicy
	Now          func() time.Time
}

/* =========================================================
   SERVICE
========================================================= */

// SessionService drives Created → InProgress → Finished. Finished is terminal.
type SessionService struct {
	store     Store
	questions QuestionSampler
	opts      Options
	log       *logrus.Entry
}

func NewSessionService(store Store, questions QuestionSampler, opts Options, log logrus.FieldLogger) *SessionService {
	if opts.MaPerSession < 0 {
		opts.MaPerSession = 0
	}
	if opts.TfPerSession < 0 {
		opts.TfPerSession = 0
	}
	if opts.Policy == nil {
		opts.Policy = FlatPolicy{}
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &SessionService{
		store:     store,
		questions: questions,
		opts:      opts,
		log:       log.WithField("component", "session_service"),
	}
}

func (s *SessionService) Policy() ScoringPolicy { return s.opts.Policy }

/* =========================================================
   VIEWS
========================================================= */

type Created struct {
	SessionID uuid.UUID `json:"session_id"`
	MaxPoints int       `json:"max_points"`
}

// PublicVariant / PublicQuestion never carry is_correct or the TF answer.
type PublicVariant struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"variant"`
}

type PublicQuestion struct {
	SessionQuestionID uuid.UUID           `json:"session_question_id"`
	Kind              qmodel.QuestionKind `json:"question_type"`
	QuestionID        uuid.UUID           `json:"question_id"`
	Text              string              `json:"text"`
	IsMultiple        bool                `json:"is_multiple,omitempty"`
	Variants          []PublicVariant     `json:"variants,omitempty"`
}

type Status struct {
	SessionID    uuid.UUID           `json:"session_id"`
	Username     string              `json:"username"`
	MaxPoints    int                 `json:"max_points"`
	ActualPoints int                 `json:"actual_points"`
	IsFinished   bool                `json:"is_finished"`
	State        smodel.SessionState `json:"state"`
	CreatedAt    time.Time           `json:"created_at"`
	FinishedAt   *time.Time          `json:"finished_at,omitempty"`
	Questions    []PublicQuestion    `json:"questions"`
	// Results is filled only once the session is finished.
	Results []Result `json:"results,omitempty"`
}

type Submission struct {
	SessionID    uuid.UUID `json:"session_id"`
	MaxPoints    int       `json:"max_points"`
	ActualPoints int       `json:"actual_points"`
	Results      []Result  `json:"results"`
}

/* =========================================================
   CREATE
========================================================= */

// CreateSession samples the configured MA + TF mix, attaches it and fixes max_points.
// A short bank yields a smaller session; max_points always matches what was attached.
func (s *SessionService) CreateSession(ctx context.Context, username string) (*Created, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}

	ma, err := s.questions.SampleMaQuestions(ctx, s.opts.MaPerSession)
	if err != nil {
		return nil, s.fail("sample ma questions", err)
	}
	tf, err := s.questions.SampleTfQuestions(ctx, s.opts.TfPerSession)
	if err != nil {
		return nil, s.fail("sample tf questions", err)
	}

	var out Created
	err = s.store.Transaction(ctx, func(tx Store) error {
		if _, err := tx.FindActiveSession(ctx, username); err == nil {
			return ErrActiveSessionExists
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		sess, err := tx.CreateSession(ctx, username)
		if err != nil {
			return err
		}

		attachedMa, err := tx.AttachQuestions(ctx, sess.SessionID, qmodel.QuestionKindMA, qmodel.MaQuestions(ma))
		if err != nil {
			return err
		}
		attachedTf, err := tx.AttachQuestions(ctx, sess.SessionID, qmodel.QuestionKindTF, qmodel.TfQuestions(tf))
		if err != nil {
			return err
		}

		attached := append(attachedMa, attachedTf...)
		maxPoints := MaxPoints(s.opts.Policy, attached)
		if err := tx.SetMaxPoints(ctx, sess.SessionID, maxPoints); err != nil {
			return err
		}

		out = Created{SessionID: sess.SessionID, MaxPoints: maxPoints}
		return nil
	})
	if err != nil {
		return nil, s.fail("create session", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id": out.SessionID,
		"username":   username,
		"ma":         len(ma),
		"tf":         len(tf),
		"max_points": out.MaxPoints,
		"policy":     s.opts.Policy.Name(),
	}).Info("session created")
	return &out, nil
}

/* =========================================================
   STATUS
========================================================= */

func (s *SessionService) GetStatus(ctx context.Context, sessionID uuid.UUID) (*Status, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, s.fail("get session", err)
	}
	questions, err := s.store.GetSessionQuestions(ctx, sessionID)
	if err != nil {
		return nil, s.fail("get session questions", err)
	}

	st := &Status{
		SessionID:    sess.SessionID,
		Username:     sess.SessionUsername,
		MaxPoints:    sess.SessionMaxPoints,
		ActualPoints: sess.SessionActualPoints,
		IsFinished:   sess.SessionIsFinished,
		State:        sess.State(len(questions)),
		CreatedAt:    sess.SessionCreatedAt,
		FinishedAt:   sess.SessionFinishedAt,
		Questions:    make([]PublicQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		st.Questions = append(st.Questions, toPublicQuestion(q))
	}

	if sess.SessionIsFinished {
		answers, err := s.store.GetSessionAnswers(ctx, sessionID)
		if err != nil {
			return nil, s.fail("get session answers", err)
		}
		st.Results = storedResults(questions, answers)
	}
	return st, nil
}

func toPublicQuestion(q smodel.SessionQuestion) PublicQuestion {
	pq := PublicQuestion{
		SessionQuestionID: q.ID,
		Kind:              q.Kind(),
		QuestionID:        q.Question.QuestionID(),
	}
	if mq, ok := q.MA(); ok {
		pq.Text = mq.MaQuestionText
		pq.IsMultiple = mq.MaQuestionIsMultiple
		pq.Variants = make([]PublicVariant, 0, len(mq.Variants))
		for _, v := range mq.Variants {
			pq.Variants = append(pq.Variants, PublicVariant{ID: v.MaQuestionVariantID, Text: v.MaQuestionVariantText})
		}
	}
	if tq, ok := q.TF(); ok {
		pq.Text = tq.TfQuestionText
	}
	return pq
}

func storedResults(questions []smodel.SessionQuestion, answers []smodel.SessionAnswerModel) []Result {
	byQuestion := make(map[uuid.UUID]smodel.SessionAnswerModel, len(answers))
	for _, a := range answers {
		byQuestion[a.SessionAnswerSessionQuestionID] = a
	}
	out := make([]Result, 0, len(questions))
	for _, q := range questions {
		r := Result{SessionQuestionID: q.ID, Kind: q.Kind()}
		if a, ok := byQuestion[q.ID]; ok {
			r.Answered = true
			r.Correct = a.SessionAnswerIsCorrect
			r.Points = a.SessionAnswerPointsAwarded
		}
		out = append(out, r)
	}
	return out
}

/* =========================================================
   SUBMIT
========================================================= */

// SubmitAnswers validates, scores and finishes the session in one transaction.
// The session row is locked first, so a concurrent submit sees ErrAlreadyFinished.
func (s *SessionService) SubmitAnswers(ctx context.Context, sessionID uuid.UUID, answers []SubmittedAnswer) (*Submission, error) {
	var out Submission
	err := s.store.Transaction(ctx, func(tx Store) error {
		sess, err := tx.LockSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if sess.SessionIsFinished {
			return ErrAlreadyFinished
		}

		questions, err := tx.GetSessionQuestions(ctx, sessionID)
		if err != nil {
			return err
		}
		checked, err := ValidateAnswers(sessionID, questions, answers)
		if err != nil {
			return err
		}

		results, total := ScoreAll(s.opts.Policy, questions, checked)
		correct := make(map[uuid.UUID]Result, len(results))
		for _, r := range results {
			correct[r.SessionQuestionID] = r
		}

		now := s.opts.Now()
		for _, a := range checked {
			r := correct[a.Question.ID]
			row := &smodel.SessionAnswerModel{
				SessionAnswerID:                uuid.New(),
				SessionAnswerSessionID:         sessionID,
				SessionAnswerSessionQuestionID: a.Question.ID,
				SessionAnswerValue:             a.Value,
				SessionAnswerIsCorrect:         r.Correct,
				SessionAnswerPointsAwarded:     r.Points,
				SessionAnswerAnsweredAt:        now,
			}
			for _, vid := range a.Variants {
				row.Variants = append(row.Variants, smodel.SessionAnswerVariantModel{
					SessionAnswerVariantAnswerID:  row.SessionAnswerID,
					SessionAnswerVariantVariantID: vid,
				})
			}
			if err := tx.RecordAnswer(ctx, row); err != nil {
				return err
			}
		}

		if err := tx.SetActualPoints(ctx, sessionID, total); err != nil {
			return err
		}
		if err := tx.MarkFinished(ctx, sessionID, now); err != nil {
			return err
		}

		out = Submission{
			SessionID:    sessionID,
			MaxPoints:    sess.SessionMaxPoints,
			ActualPoints: total,
			Results:      results,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("submit answers", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id":    sessionID,
		"answers":       len(answers),
		"actual_points": out.ActualPoints,
		"max_points":    out.MaxPoints,
	}).Info("session finished")
	return &out, nil
}

/* =========================================================
   END
========================================================= */

// EndSession finishes the session without scoring; actual_points stays 0.
func (s *SessionService) EndSession(ctx context.Context, sessionID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx Store) error {
		sess, err := tx.LockSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if sess.SessionIsFinished {
			return ErrAlreadyFinished
		}
		return tx.MarkFinished(ctx, sessionID, s.opts.Now())
	})
	if err != nil {
		return s.fail("end session", err)
	}
	s.log.WithField("session_id", sessionID).Info("session ended without scoring")
	return nil
}

/* =========================================================
   helpers
========================================================= */

// fail logs store outages at error level; client errors pass through quietly.
func (s *SessionService) fail(op string, err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		s.log.WithError(err).WithField("op", op).Error("store unavailable")
		return err
	}
	if isDomainError(err) {
		return err
	}
	s.log.WithError(err).WithField("op", op).Error("unexpected error")
	return errors.Wrap(err, op)
}
