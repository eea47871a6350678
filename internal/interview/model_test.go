package interview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prepdeck/interview-manager/internal/interview"
)

func TestKindValid(t *testing.T) {
	t.Parallel()

	assert.True(t, interview.KindCoach.Valid())
	assert.True(t, interview.KindPractice.Valid())
	assert.False(t, interview.Kind("mentor").Valid())
	assert.False(t, interview.Kind("").Valid())
}

func TestSessionAllAnswered(t *testing.T) {
	t.Parallel()

	var s interview.Session
	assert.False(t, s.AllAnswered(), "a session with no steps has nothing answered")

	s.Steps = []interview.StepRecord{
		{Question: "Q1", UserAnswer: "A1"},
		{Question: "Q2"},
	}
	assert.False(t, s.AllAnswered())

	s.Steps[1].UserAnswer = "A2"
	assert.True(t, s.AllAnswered())
}

func TestSessionClone(t *testing.T) {
	t.Parallel()

	s := interview.Session{
		ID: "s1",
		Steps: []interview.StepRecord{
			{Question: "Q1", Warnings: []string{"w1"}},
		},
		Overall: &interview.OverallFeedback{
			HiringPercentage:    "80%",
			AreasForImprovement: []string{"Depth"},
		},
	}

	c := s.Clone()
	c.Steps[0].Question = "mutated"
	c.Steps[0].Warnings[0] = "mutated"
	c.Overall.HiringPercentage = "0%"
	c.Overall.AreasForImprovement[0] = "mutated"

	assert.Equal(t, "Q1", s.Steps[0].Question)
	assert.Equal(t, "w1", s.Steps[0].Warnings[0])
	assert.Equal(t, "80%", s.Overall.HiringPercentage)
	assert.Equal(t, "Depth", s.Overall.AreasForImprovement[0])
}

func TestSessionQuestions(t *testing.T) {
	t.Parallel()

	s := interview.Session{
		Steps: []interview.StepRecord{
			{Question: "Q1"},
			{Question: "Q2"},
		},
	}
	assert.Equal(t, []string{"Q1", "Q2"}, s.Questions())
}
