// file: internals/features/quiz/questions/service/question_store.go
package service

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	qmodel "quiz_session_backend/internals/features/quiz/questions/model"
)

// ErrStoreUnavailable is returned when the backing database cannot serve a request.
var ErrStoreUnavailable = errors.New("store unavailable")

// Store samples the read-only question bank.
type Store interface {
	SampleMaQuestions(ctx context.Context, n int) ([]qmodel.MaQuestionModel, error)
	SampleTfQuestions(ctx context.Context, n int) ([]qmodel.TfQuestionModel, error)
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// SampleMaQuestions picks up to n questions uniformly at random, each with all of its variants.
// A bank smaller than n yields every question.
func (s *GormStore) SampleMaQuestions(ctx context.Context, n int) ([]qmodel.MaQuestionModel, error) {
	if n <= 0 {
		return []qmodel.MaQuestionModel{}, nil
	}

	var rows []qmodel.MaQuestionModel
	err := s.DB.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("ma_question_variant_position ASC, ma_question_variant_id ASC")
		}).
		Order("random()").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(ErrStoreUnavailable, "sample ma questions: %v", err)
	}
	return rows, nil
}

func (s *GormStore) SampleTfQuestions(ctx context.Context, n int) ([]qmodel.TfQuestionModel, error) {
	if n <= 0 {
		return []qmodel.TfQuestionModel{}, nil
	}

	var rows []qmodel.TfQuestionModel
	err := s.DB.WithContext(ctx).
		Order("random()").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(ErrStoreUnavailable, "sample tf questions: %v", err)
	}
	return rows, nil
}
