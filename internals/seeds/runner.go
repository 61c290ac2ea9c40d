package seeds

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	questions "quiz_session_backend/internals/seeds/questions"
)

const DefaultQuestionsFile = "internals/seeds/questions/data_questions.json"

// RunAllSeeds imports the question bank; an empty path uses DefaultQuestionsFile.
func RunAllSeeds(ctx context.Context, db *gorm.DB, questionsFile string, log logrus.FieldLogger) error {
	if questionsFile == "" {
		questionsFile = DefaultQuestionsFile
	}

	//* Question bank
	if _, err := questions.SeedQuestionsFromJSON(ctx, db, questionsFile, log); err != nil {
		return err
	}
	return nil
}
