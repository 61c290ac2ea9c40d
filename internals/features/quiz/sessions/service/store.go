package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	qmodel "quiz_session_backend/internals/features/quiz/questions/model"
	smodel "quiz_session_backend/internals/features/quiz/sessions/model"
)

// Store persists sessions and their question / answer associations.
// Nothing is cached: every call reads the database.
type Store interface {
	CreateSession(ctx context.Context, username string) (*smodel.SessionModel, error)
	// AttachQuestions appends one session question per element; every element must be of kind.
	AttachQuestions(ctx context.Context, sessionID uuid.UUID, kind qmodel.QuestionKind, questions []qmodel.Question) ([]smodel.SessionQuestion, error)
	SetMaxPoints(ctx context.Context, sessionID uuid.UUID, points int) error
	// SetActualPoints and MarkFinished only touch unfinished sessions (ErrAlreadyFinished otherwise).
	SetActualPoints(ctx context.Context, sessionID uuid.UUID, points int) error
	MarkFinished(ctx context.Context, sessionID uuid.UUID, at time.Time) error

	GetSession(ctx context.Context, sessionID uuid.UUID) (*smodel.SessionModel, error)
	// LockSession is GetSession with a row lock held until the surrounding transaction ends.
	LockSession(ctx context.Context, sessionID uuid.UUID) (*smodel.SessionModel, error)
	GetSessionQuestions(ctx context.Context, sessionID uuid.UUID) ([]smodel.SessionQuestion, error)
	GetSessionAnswers(ctx context.Context, sessionID uuid.UUID) ([]smodel.SessionAnswerModel, error)
	RecordAnswer(ctx context.Context, answer *smodel.SessionAnswerModel) error

	FindActiveSession(ctx context.Context, username string) (*smodel.SessionModel, error)
	ListStaleSessions(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error)

	// Transaction runs fn against a transactional view; any error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
