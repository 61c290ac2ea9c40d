package database

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	qmodel "quiz_session_backend/internals/features/quiz/questions/model"
	smodel "quiz_session_backend/internals/features/quiz/sessions/model"
)

// Constraints gorm tags cannot express. Each statement is idempotent.
var constraintDDL = []string{
	// exactly one question FK, matching the discriminant
	`ALTER TABLE session_questions DROP CONSTRAINT IF EXISTS ck_session_questions_type_fk`,
	`ALTER TABLE session_questions ADD CONSTRAINT ck_session_questions_type_fk CHECK (
		(session_question_type = 'ma' AND session_question_ma_question_id IS NOT NULL AND session_question_tf_question_id IS NULL)
		OR
		(session_question_type = 'tf' AND session_question_tf_question_id IS NOT NULL AND session_question_ma_question_id IS NULL)
	)`,

	// the session owns its questions and answers
	`ALTER TABLE session_questions DROP CONSTRAINT IF EXISTS fk_session_questions_session`,
	`ALTER TABLE session_questions ADD CONSTRAINT fk_session_questions_session
		FOREIGN KEY (session_question_session_id) REFERENCES sessions(session_id) ON DELETE CASCADE`,
	`ALTER TABLE session_answers DROP CONSTRAINT IF EXISTS fk_session_answers_session`,
	`ALTER TABLE session_answers ADD CONSTRAINT fk_session_answers_session
		FOREIGN KEY (session_answer_session_id) REFERENCES sessions(session_id) ON DELETE CASCADE`,
	`ALTER TABLE session_answers DROP CONSTRAINT IF EXISTS fk_session_answers_session_question`,
	`ALTER TABLE session_answers ADD CONSTRAINT fk_session_answers_session_question
		FOREIGN KEY (session_answer_session_question_id) REFERENCES session_questions(session_question_id) ON DELETE CASCADE`,
	`ALTER TABLE session_answer_variants DROP CONSTRAINT IF EXISTS fk_session_answer_variants_variant`,
	`ALTER TABLE session_answer_variants ADD CONSTRAINT fk_session_answer_variants_variant
		FOREIGN KEY (session_answer_variant_variant_id) REFERENCES ma_question_variants(ma_question_variant_id)`,

	// one unfinished session per username
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_sessions_active_username
		ON sessions (session_username) WHERE session_is_finished = false`,
	`CREATE INDEX IF NOT EXISTS ix_sessions_unfinished_created_at
		ON sessions (session_created_at) WHERE session_is_finished = false`,
}

// Migrate creates / updates every table plus the extra constraints.
func Migrate(ctx context.Context, db *gorm.DB, log logrus.FieldLogger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		log.Info("[MIGRATE] auto-migrating models...")
		if err := tx.AutoMigrate(
			&qmodel.MaQuestionModel{},
			&qmodel.MaQuestionVariantModel{},
			&qmodel.TfQuestionModel{},
			&smodel.SessionModel{},
			&smodel.SessionQuestionModel{},
			&smodel.SessionAnswerModel{},
			&smodel.SessionAnswerVariantModel{},
		); err != nil {
			return errors.Wrap(err, "auto migrate")
		}

		for i, stmt := range constraintDDL {
			if err := tx.Exec(stmt).Error; err != nil {
				return errors.Wrapf(err, "constraint ddl #%d", i)
			}
		}
		log.Info("[MIGRATE] done")
		return nil
	})
}
