package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	qmodel "quiz_session_backend/internals/features/quiz/questions/model"
	smodel "quiz_session_backend/internals/features/quiz/sessions/model"
)

// memStore is an in-memory Store. Transactions are serialized (standing in for the
// row lock) and restore a snapshot when fn fails.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	sessions  map[uuid.UUID]smodel.SessionModel
	questions map[uuid.UUID][]smodel.SessionQuestion
	answers   map[uuid.UUID][]smodel.SessionAnswerModel

	// failOn makes the named method return ErrStoreUnavailable.
	failOn map[string]bool
	clock  time.Time
}

func newMemStore() *memStore {
	return &memStore{
		sessions:  map[uuid.UUID]smodel.SessionModel{},
		questions: map[uuid.UUID][]smodel.SessionQuestion{},
		answers:   map[uuid.UUID][]smodel.SessionAnswerModel{},
		failOn:    map[string]bool{},
		clock:     time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

var _ Store = (*memStore)(nil)

func (m *memStore) fail(op string) error {
	if m.failOn[op] {
		return errors.Wrapf(ErrStoreUnavailable, "%s: connection refused", op)
	}
	return nil
}

func (m *memStore) CreateSession(_ context.Context, username string) (*smodel.SessionModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateSession"); err != nil {
		return nil, err
	}
	for _, s := range m.sessions {
		if s.SessionUsername == username && !s.SessionIsFinished {
			return nil, ErrActiveSessionExists
		}
	}
	m.clock = m.clock.Add(time.Second)
	s := smodel.SessionModel{SessionID: uuid.New(), SessionUsername: username, SessionCreatedAt: m.clock}
	m.sessions[s.SessionID] = s
	return &s, nil
}

func (m *memStore) AttachQuestions(_ context.Context, sessionID uuid.UUID, kind qmodel.QuestionKind, qs []qmodel.Question) ([]smodel.SessionQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("AttachQuestions"); err != nil {
		return nil, err
	}
	if _, ok := m.sessions[sessionID]; !ok {
		return nil, ErrNotFound
	}
	out := make([]smodel.SessionQuestion, 0, len(qs))
	for _, q := range qs {
		if q.QuestionKind() != kind {
			return nil, errors.Errorf("attach questions: expected %s questions only", kind)
		}
		sq := smodel.SessionQuestion{
			ID:        uuid.New(),
			SessionID: sessionID,
			Position:  len(m.questions[sessionID]),
			Question:  q,
		}
		m.questions[sessionID] = append(m.questions[sessionID], sq)
		out = append(out, sq)
	}
	return out, nil
}

func (m *memStore) update(op string, sessionID uuid.UUID, fn func(s *smodel.SessionModel)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(op); err != nil {
		return err
	}
	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	if s.SessionIsFinished {
		return ErrAlreadyFinished
	}
	fn(&s)
	m.sessions[sessionID] = s
	return nil
}

func (m *memStore) SetMaxPoints(_ context.Context, sessionID uuid.UUID, points int) error {
	return m.update("SetMaxPoints", sessionID, func(s *smodel.SessionModel) { s.SessionMaxPoints = points })
}

func (m *memStore) SetActualPoints(_ context.Context, sessionID uuid.UUID, points int) error {
	return m.update("SetActualPoints", sessionID, func(s *smodel.SessionModel) { s.SessionActualPoints = points })
}

func (m *memStore) MarkFinished(_ context.Context, sessionID uuid.UUID, at time.Time) error {
	return m.update("MarkFinished", sessionID, func(s *smodel.SessionModel) {
		s.SessionIsFinished = true
		s.SessionFinishedAt = &at
	})
}

func (m *memStore) GetSession(_ context.Context, sessionID uuid.UUID) (*smodel.SessionModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetSession"); err != nil {
		return nil, err
	}
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *memStore) LockSession(ctx context.Context, sessionID uuid.UUID) (*smodel.SessionModel, error) {
	return m.GetSession(ctx, sessionID)
}

func (m *memStore) GetSessionQuestions(_ context.Context, sessionID uuid.UUID) ([]smodel.SessionQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetSessionQuestions"); err != nil {
		return nil, err
	}
	return append([]smodel.SessionQuestion(nil), m.questions[sessionID]...), nil
}

func (m *memStore) GetSessionAnswers(_ context.Context, sessionID uuid.UUID) ([]smodel.SessionAnswerModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetSessionAnswers"); err != nil {
		return nil, err
	}
	return append([]smodel.SessionAnswerModel(nil), m.answers[sessionID]...), nil
}

func (m *memStore) RecordAnswer(_ context.Context, a *smodel.SessionAnswerModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("RecordAnswer"); err != nil {
		return err
	}
	for _, existing := range m.answers[a.SessionAnswerSessionID] {
		if existing.SessionAnswerSessionQuestionID == a.SessionAnswerSessionQuestionID {
			return rejectAnswer(ReasonDuplicateAnswer, a.SessionAnswerSessionQuestionID, "already answered")
		}
	}
	m.answers[a.SessionAnswerSessionID] = append(m.answers[a.SessionAnswerSessionID], *a)
	return nil
}

func (m *memStore) FindActiveSession(_ context.Context, username string) (*smodel.SessionModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("FindActiveSession"); err != nil {
		return nil, err
	}
	for _, s := range m.sessions {
		if s.SessionUsername == username && !s.SessionIsFinished {
			s := s
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) ListStaleSessions(_ context.Context, before time.Time, limit int) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListStaleSessions"); err != nil {
		return nil, err
	}
	var stale []smodel.SessionModel
	for _, s := range m.sessions {
		if !s.SessionIsFinished && s.SessionCreatedAt.Before(before) {
			stale = append(stale, s)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].SessionCreatedAt.Before(stale[j].SessionCreatedAt) })
	ids := make([]uuid.UUID, 0, len(stale))
	for i, s := range stale {
		if i == limit {
			break
		}
		ids = append(ids, s.SessionID)
	}
	return ids, nil
}

func (m *memStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	sessions  map[uuid.UUID]smodel.SessionModel
	questions map[uuid.UUID][]smodel.SessionQuestion
	answers   map[uuid.UUID][]smodel.SessionAnswerModel
}

func (m *memStore) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := memSnapshot{
		sessions:  make(map[uuid.UUID]smodel.SessionModel, len(m.sessions)),
		questions: make(map[uuid.UUID][]smodel.SessionQuestion, len(m.questions)),
		answers:   make(map[uuid.UUID][]smodel.SessionAnswerModel, len(m.answers)),
	}
	for k, v := range m.sessions {
		s.sessions[k] = v
	}
	for k, v := range m.questions {
		s.questions[k] = append([]smodel.SessionQuestion(nil), v...)
	}
	for k, v := range m.answers {
		s.answers[k] = append([]smodel.SessionAnswerModel(nil), v...)
	}
	return s
}

func (m *memStore) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions, m.questions, m.answers = s.sessions, s.questions, s.answers
}

// session is a test accessor.
func (m *memStore) session(id uuid.UUID) smodel.SessionModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

func (m *memStore) answerCount(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.answers[id])
}

/* =========================================================
   question bank fake + fixtures
========================================================= */

type fakeBank struct {
	ma  []qmodel.MaQuestionModel
	tf  []qmodel.TfQuestionModel
	err error
}

func (b *fakeBank) SampleMaQuestions(_ context.Context, n int) ([]qmodel.MaQuestionModel, error) {
	if b.err != nil {
		return nil, b.err
	}
	if n > len(b.ma) {
		n = len(b.ma)
	}
	if n < 0 {
		n = 0
	}
	return append([]qmodel.MaQuestionModel(nil), b.ma[:n]...), nil
}

func (b *fakeBank) SampleTfQuestions(_ context.Context, n int) ([]qmodel.TfQuestionModel, error) {
	if b.err != nil {
		return nil, b.err
	}
	if n > len(b.tf) {
		n = len(b.tf)
	}
	if n < 0 {
		n = 0
	}
	return append([]qmodel.TfQuestionModel(nil), b.tf[:n]...), nil
}

// maQuestion builds an MA question with one variant per flag.
func maQuestion(text string, correct ...bool) qmodel.MaQuestionModel {
	q := qmodel.MaQuestionModel{MaQuestionID: uuid.New(), MaQuestionText: text, MaQuestionPoints: 1}
	n := 0
	for i, c := range correct {
		if c {
			n++
		}
		q.Variants = append(q.Variants, qmodel.MaQuestionVariantModel{
			MaQuestionVariantID:         uuid.New(),
			MaQuestionVariantQuestionID: q.MaQuestionID,
			MaQuestionVariantText:       text + " option " + string(rune('A'+i)),
			MaQuestionVariantIsCorrect:  c,
			MaQuestionVariantPosition:   i,
		})
	}
	q.MaQuestionIsMultiple = n > 1
	return q
}

func tfQuestion(text string, answer bool) qmodel.TfQuestionModel {
	return qmodel.TfQuestionModel{TfQuestionID: uuid.New(), TfQuestionText: text, TfQuestionAnswer: answer, TfQuestionPoints: 1}
}

func correctVariants(q *qmodel.MaQuestionModel) []uuid.UUID {
	var out []uuid.UUID
	for _, v := range q.Variants {
		if v.MaQuestionVariantIsCorrect {
			out = append(out, v.MaQuestionVariantID)
		}
	}
	return out
}

func wrongVariants(q *qmodel.MaQuestionModel) []uuid.UUID {
	var out []uuid.UUID
	for _, v := range q.Variants {
		if !v.MaQuestionVariantIsCorrect {
			out = append(out, v.MaQuestionVariantID)
		}
	}
	return out
}

// standardBank: 2 MA + 2 TF, enough for the default session mix.
func standardBank() *fakeBank {
	return &fakeBank{
		ma: []qmodel.MaQuestionModel{
			maQuestion("primes", true, true, false, false),
			maQuestion("planet", true, false, false),
		},
		tf: []qmodel.TfQuestionModel{
			tfQuestion("water boils at 100C", true),
			tfQuestion("pacific is smallest", false),
		},
	}
}
