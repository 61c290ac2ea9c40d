package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qmodel "quiz_session_backend/internals/features/quiz/questions/model"
)

func TestNewSessionQuestionRow(t *testing.T) {
	sid := uuid.New()

	ma := &qmodel.MaQuestionModel{MaQuestionID: uuid.New()}
	row := NewSessionQuestionRow(sid, ma, 0)
	assert.Equal(t, qmodel.QuestionKindMA, row.SessionQuestionType)
	require.NotNil(t, row.SessionQuestionMaQuestionID)
	assert.Equal(t, ma.MaQuestionID, *row.SessionQuestionMaQuestionID)
	assert.Nil(t, row.SessionQuestionTfQuestionID)

	tf := &qmodel.TfQuestionModel{TfQuestionID: uuid.New()}
	row = NewSessionQuestionRow(sid, tf, 3)
	assert.Equal(t, qmodel.QuestionKindTF, row.SessionQuestionType)
	assert.Nil(t, row.SessionQuestionMaQuestionID)
	require.NotNil(t, row.SessionQuestionTfQuestionID)
	assert.Equal(t, tf.TfQuestionID, *row.SessionQuestionTfQuestionID)
	assert.Equal(t, 3, row.SessionQuestionPosition)
	assert.Equal(t, sid, row.SessionQuestionSessionID)
}

func TestToSessionQuestion(t *testing.T) {
	ma := &qmodel.MaQuestionModel{MaQuestionID: uuid.New(), MaQuestionText: "primes"}
	row := NewSessionQuestionRow(uuid.New(), ma, 1)
	row.MaQuestion = ma

	sq, err := row.ToSessionQuestion()
	require.NoError(t, err)
	assert.Equal(t, row.SessionQuestionID, sq.ID)
	assert.Equal(t, qmodel.QuestionKindMA, sq.Kind())
	got, ok := sq.MA()
	require.True(t, ok)
	assert.Equal(t, "primes", got.MaQuestionText)
	_, ok = sq.TF()
	assert.False(t, ok)

	t.Run("missing preload", func(t *testing.T) {
		row := NewSessionQuestionRow(uuid.New(), &qmodel.TfQuestionModel{TfQuestionID: uuid.New()}, 0)
		_, err := row.ToSessionQuestion()
		assert.Error(t, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		row := SessionQuestionModel{SessionQuestionID: uuid.New(), SessionQuestionType: "essay"}
		_, err := row.ToSessionQuestion()
		assert.Error(t, err)
	})
}

func TestSessionState(t *testing.T) {
	s := SessionModel{}
	assert.Equal(t, SessionStateCreated, s.State(0))
	assert.Equal(t, SessionStateInProgress, s.State(4))
	s.SessionIsFinished = true
	assert.Equal(t, SessionStateFinished, s.State(4))
}
