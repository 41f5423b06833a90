package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAcceptingSubmissionsDeadlineIsInclusiveOfItsDay(t *testing.T) {
	deadline := time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)
	event := Event{IsActive: true, Deadline: &deadline}

	lastInstant := time.Date(2026, time.March, 10, 23, 59, 59, 999000000, time.UTC)
	assert.True(t, event.AcceptingSubmissions(lastInstant))

	nextMidnight := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)
	assert.False(t, event.AcceptingSubmissions(nextMidnight))
}

func TestAcceptingSubmissionsInactiveAlwaysClosed(t *testing.T) {
	event := Event{IsActive: false}
	assert.False(t, event.AcceptingSubmissions(time.Now()))

	// deadline in the future does not override the active flag
	future := time.Now().Add(48 * time.Hour)
	event.Deadline = &future
	assert.False(t, event.AcceptingSubmissions(time.Now()))
}

func TestAcceptingSubmissionsNoDeadline(t *testing.T) {
	event := Event{IsActive: true}
	assert.True(t, event.AcceptingSubmissions(time.Now()))
	assert.True(t, event.AcceptingSubmissions(time.Now().Add(100*24*time.Hour)))
}

func TestSelectionCodecRoundTrip(t *testing.T) {
	selected := []string{"A", "C"}
	stored := JoinSelections(selected)
	assert.Equal(t, "A,C", stored)
	assert.Equal(t, []string{"A", "C"}, SplitSelections(stored))
}

func TestSplitSelectionsEmpty(t *testing.T) {
	assert.Nil(t, SplitSelections(""))
}

func TestAnswerForMissingAndEmptyAreBothUnanswered(t *testing.T) {
	sub := SubmissionWithAnswers{
		Answers: []Answer{
			{FieldID: "f1", Answer: "hello"},
			{FieldID: "f2", Answer: ""},
		},
	}
	assert.Equal(t, "hello", sub.AnswerFor("f1"))
	assert.Equal(t, "", sub.AnswerFor("f2"))
	assert.Equal(t, "", sub.AnswerFor("f3"))
}

func TestNewSlugShape(t *testing.T) {
	slug := NewSlug()
	parts := strings.Split(slug, "-")
	assert.Len(t, parts, 4)
	for _, p := range parts {
		assert.NotEmpty(t, p)
	}
}

func TestNewSlugIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		slug := NewSlug()
		assert.False(t, seen[slug], "duplicate slug %q", slug)
		seen[slug] = true
	}
}
