package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	qmodel "quiz_session_backend/internals/features/quiz/questions/model"
	smodel "quiz_session_backend/internals/features/quiz/sessions/model"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

/* =========================================================
   WRITES
========================================================= */

func (s *GormStore) CreateSession(ctx context.Context, username string) (*smodel.SessionModel, error) {
	row := smodel.SessionModel{
		SessionID:       uuid.New(),
		SessionUsername: username,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		// partial unique index: one unfinished session per username
		if pgCode(err) == pgUniqueViolation {
			return nil, ErrActiveSessionExists
		}
		return nil, storeError("create session", err)
	}
	return &row, nil
}

func (s *GormStore) AttachQuestions(ctx context.Context, sessionID uuid.UUID, kind qmodel.QuestionKind, questions []qmodel.Question) ([]smodel.SessionQuestion, error) {
	if len(questions) == 0 {
		return []smodel.SessionQuestion{}, nil
	}
	for _, q := range questions {
		if q == nil || q.QuestionKind() != kind {
			return nil, errors.Errorf("attach questions: expected %s questions only", kind)
		}
	}

	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&smodel.SessionQuestionModel{}).
		Where("session_question_session_id = ?", sessionID).
		Count(&existing).Error; err != nil {
		return nil, storeError("count session questions", err)
	}

	rows := make([]smodel.SessionQuestionModel, 0, len(questions))
	out := make([]smodel.SessionQuestion, 0, len(questions))
	for i, q := range questions {
		row := smodel.NewSessionQuestionRow(sessionID, q, int(existing)+i)
		rows = append(rows, row)
		out = append(out, smodel.SessionQuestion{
			ID:        row.SessionQuestionID,
			SessionID: sessionID,
			Position:  row.SessionQuestionPosition,
			Question:  q,
		})
	}

	if err := db.Create(&rows).Error; err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return nil, ErrNotFound
		}
		return nil, storeError("attach questions", err)
	}
	return out, nil
}

func (s *GormStore) SetMaxPoints(ctx context.Context, sessionID uuid.UUID, points int) error {
	return s.updateUnfinished(ctx, sessionID, "set max points", map[string]any{
		"session_max_points": points,
	})
}

func (s *GormStore) SetActualPoints(ctx context.Context, sessionID uuid.UUID, points int) error {
	return s.updateUnfinished(ctx, sessionID, "set actual points", map[string]any{
		"session_actual_points": points,
	})
}

func (s *GormStore) MarkFinished(ctx context.Context, sessionID uuid.UUID, at time.Time) error {
	return s.updateUnfinished(ctx, sessionID, "mark finished", map[string]any{
		"session_is_finished": true,
		"session_finished_at": at,
	})
}

// updateUnfinished is the optimistic guard: 0 rows means missing or already finished.
func (s *GormStore) updateUnfinished(ctx context.Context, sessionID uuid.UUID, op string, fields map[string]any) error {
	res := s.db.WithContext(ctx).
		Model(&smodel.SessionModel{}).
		Where("session_id = ? AND session_is_finished = ?", sessionID, false).
		Updates(fields)
	if res.Error != nil {
		return storeError(op, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := s.db.WithContext(ctx).
		Model(&smodel.SessionModel{}).
		Where("session_id = ?", sessionID).
		Count(&n).Error; err != nil {
		return storeError(op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrAlreadyFinished
}

func (s *GormStore) RecordAnswer(ctx context.Context, answer *smodel.SessionAnswerModel) error {
	if answer == nil {
		return errors.New("record answer: nil answer")
	}
	if answer.SessionAnswerID == uuid.Nil {
		answer.SessionAnswerID = uuid.New()
	}
	if answer.SessionAnswerAnsweredAt.IsZero() {
		answer.SessionAnswerAnsweredAt = time.Now().UTC()
	}
	for i := range answer.Variants {
		answer.Variants[i].SessionAnswerVariantAnswerID = answer.SessionAnswerID
	}

	if err := s.db.WithContext(ctx).Create(answer).Error; err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return rejectAnswer(ReasonDuplicateAnswer, answer.SessionAnswerSessionQuestionID, "already answered")
		case pgForeignKeyViolation:
			return rejectAnswer(ReasonUnknownQuestion, answer.SessionAnswerSessionQuestionID, "unknown reference")
		}
		return storeError("record answer", err)
	}
	return nil
}

/* =========================================================
   READS
========================================================= */

func (s *GormStore) GetSession(ctx context.Context, sessionID uuid.UUID) (*smodel.SessionModel, error) {
	return s.firstSession(s.db.WithContext(ctx), sessionID, "get session")
}

func (s *GormStore) LockSession(ctx context.Context, sessionID uuid.UUID) (*smodel.SessionModel, error) {
	return s.firstSession(
		s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		sessionID, "lock session",
	)
}

func (s *GormStore) firstSession(db *gorm.DB, sessionID uuid.UUID, op string) (*smodel.SessionModel, error) {
	var row smodel.SessionModel
	if err := db.First(&row, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError(op, err)
	}
	return &row, nil
}

func (s *GormStore) GetSessionQuestions(ctx context.Context, sessionID uuid.UUID) ([]smodel.SessionQuestion, error) {
	var rows []smodel.SessionQuestionModel
	err := s.db.WithContext(ctx).
		Preload("MaQuestion.Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("ma_question_variant_position ASC, ma_question_variant_id ASC")
		}).
		Preload("TfQuestion").
		Where("session_question_session_id = ?", sessionID).
		Order("session_question_position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("get session questions", err)
	}

	out := make([]smodel.SessionQuestion, 0, len(rows))
	for i := range rows {
		sq, err := rows[i].ToSessionQuestion()
		if err != nil {
			return nil, storeError("decode session question", err)
		}
		out = append(out, sq)
	}
	return out, nil
}

func (s *GormStore) GetSessionAnswers(ctx context.Context, sessionID uuid.UUID) ([]smodel.SessionAnswerModel, error) {
	var rows []smodel.SessionAnswerModel
	if err := s.db.WithContext(ctx).
		Preload("Variants").
		Where("session_answer_session_id = ?", sessionID).
		Find(&rows).Error; err != nil {
		return nil, storeError("get session answers", err)
	}
	return rows, nil
}

func (s *GormStore) FindActiveSession(ctx context.Context, username string) (*smodel.SessionModel, error) {
	var row smodel.SessionModel
	err := s.db.WithContext(ctx).
		Where("session_username = ? AND session_is_finished = ?", username, false).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError("find active session", err)
	}
	return &row, nil
}

func (s *GormStore) ListStaleSessions(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 100
	}
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).
		Model(&smodel.SessionModel{}).
		Where("session_is_finished = ? AND session_created_at < ?", false, createdBefore).
		Order("session_created_at ASC").
		Limit(limit).
		Pluck("session_id", &ids).Error; err != nil {
		return nil, storeError("list stale sessions", err)
	}
	return ids, nil
}

/* =========================================================
   TRANSACTION
========================================================= */

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
	if err != nil && !isDomainError(err) {
		return storeError("transaction", err)
	}
	return err
}

/* =========================================================
   PG error mapping (pgx / lib/pq)
========================================================= */

func pgCode(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func storeError(op string, err error) error {
	if isDomainError(err) {
		return err
	}
	return errors.Wrapf(ErrStoreUnavailable, "%s: %v", op, err)
}
