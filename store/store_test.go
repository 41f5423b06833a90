package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kassemabbassi/formBuilder/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestCreateSubmissionIsOneTransaction(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO form_submission").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep := mock.ExpectPrepare("INSERT INTO submission_answer")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sub, err := s.CreateSubmission(context.Background(),
		model.Submission{EventID: "ev-1"},
		[]model.Answer{
			{FieldID: "f1", Answer: "Ada"},
			{FieldID: "f2", Answer: ""},
		},
	)
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.False(t, sub.SubmittedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSubmissionFailedAnswerRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO form_submission").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep := mock.ExpectPrepare("INSERT INTO submission_answer")
	prep.ExpectExec().WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := s.CreateSubmission(context.Background(),
		model.Submission{EventID: "ev-1"},
		[]model.Answer{{FieldID: "f1", Answer: "x"}},
	)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSubmissionRemovesAnswersFirst(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM submission_answer").
		WithArgs("sub-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM form_submission").
		WithArgs("sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteSubmission(context.Background(), "sub-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSubmissionUnknownID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM submission_answer").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM form_submission").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.DeleteSubmission(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDefinitionUnknownEventRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE event").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := s.SaveDefinition(context.Background(), model.Event{ID: "nope"}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDefinitionAssignsDurableIDs(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE event").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM form_field").
		WithArgs("ev-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	prep := mock.ExpectPrepare("INSERT INTO form_field")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	fields := []model.FormField{
		{ID: "temp-1", FieldType: model.TypeText, Label: "Name", OrderIndex: 0},
		{ID: "temp-2", FieldType: model.TypeSelect, Label: "Size", Options: []string{"S", "M"}, OrderIndex: 1},
	}
	saved, err := s.SaveDefinition(context.Background(), model.Event{ID: "ev-1", Title: "Offsite"}, fields)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	for _, f := range saved {
		assert.NotContains(t, f.ID, "temp")
		assert.Equal(t, "ev-1", f.EventID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAnswerUnknownID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE submission_answer").
		WithArgs("fixed", "nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateAnswer(context.Background(), "nope", "fixed")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
