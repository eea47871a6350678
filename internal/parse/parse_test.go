package parse_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/interview-manager/internal/parse"
)

func TestParseStep(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantQuestion string
		wantAnswer   string
		wantPartial  bool
		wantWarning  string
		wantErr      error
	}{
		{
			name:         "well formed",
			raw:          "Question: What is polymorphism?\nAnswer: Ability of one interface to represent different behaviors.",
			wantQuestion: "What is polymorphism?",
			wantAnswer:   "Ability of one interface to represent different behaviors.",
		},
		{
			name:         "markers out of order",
			raw:          "Answer: Use channels to communicate.\nQuestion: How do goroutines share data?",
			wantQuestion: "How do goroutines share data?",
			wantAnswer:   "Use channels to communicate.",
		},
		{
			name:         "bolded markers with decoration",
			raw:          "**Question:** Tell me about a conflict you resolved.\n- **Answer:** Describe the situation, your action and the result.",
			wantQuestion: "Tell me about a conflict you resolved.",
			wantAnswer:   "Describe the situation, your action and the result.",
		},
		{
			name:         "case insensitive markers",
			raw:          "question: Why queues?\nIDEAL ANSWER: They decouple producers from consumers.",
			wantQuestion: "Why queues?",
			wantAnswer:   "They decouple producers from consumers.",
		},
		{
			name:         "no markers degrades to question",
			raw:          "Tell me about yourself.",
			wantQuestion: "Tell me about yourself.",
			wantAnswer:   parse.Placeholder,
			wantPartial:  true,
			wantWarning:  `missing "Answer" field`,
		},
		{
			name:         "missing answer marker",
			raw:          "Question: What does CAP stand for?",
			wantQuestion: "What does CAP stand for?",
			wantAnswer:   parse.Placeholder,
			wantPartial:  true,
			wantWarning:  `missing "Answer" field`,
		},
		{
			name:         "multiline answer captured to end",
			raw:          "Question: Explain backpressure.\nAnswer: It is a flow control signal.\nIt keeps producers honest.",
			wantQuestion: "Explain backpressure.",
			wantAnswer:   "It is a flow control signal.\nIt keeps producers honest.",
		},
		{
			name:    "empty input",
			raw:     "   \n\t",
			wantErr: parse.ErrEmptyInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parse.ParseStep(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuestion, res.Value.Question)
			assert.Equal(t, tt.wantAnswer, res.Value.IdealAnswer)
			assert.Equal(t, tt.wantPartial, res.Partial())
			if tt.wantWarning != "" {
				assert.Contains(t, strings.Join(res.Warnings, "\n"), tt.wantWarning)
			}
		})
	}
}

func TestParseStepDeterministic(t *testing.T) {
	raw := "Question: What is a mutex?\nAnswer: A mutual exclusion lock."
	first, err := parse.ParseStep(raw)
	require.NoError(t, err)
	second, err := parse.ParseStep(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseFeedback(t *testing.T) {
	t.Run("labeled", func(t *testing.T) {
		res, err := parse.ParseFeedback("Feedback: Quantify your impact with numbers.")
		require.NoError(t, err)
		assert.Equal(t, "Quantify your impact with numbers.", res.Value)
		assert.False(t, res.Partial())
	})

	t.Run("unlabeled takes whole text", func(t *testing.T) {
		res, err := parse.ParseFeedback("Your answer lacked a concrete example.")
		require.NoError(t, err)
		assert.Equal(t, "Your answer lacked a concrete example.", res.Value)
		assert.True(t, res.Partial())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := parse.ParseFeedback("")
		require.ErrorIs(t, err, parse.ErrEmptyInput)
	})
}

func TestParseOverall(t *testing.T) {
	raw := strings.Join([]string{
		"Hiring Percentage: 75%",
		"Areas for Improvement:",
		"- Structure answers with STAR",
		"* Quantify outcomes",
		"3. Slow down when explaining trade-offs",
		"",
		"Overall Message: Strong fundamentals, keep practicing delivery.",
	}, "\n")

	res, err := parse.ParseOverall(raw)
	require.NoError(t, err)
	assert.False(t, res.Partial())
	assert.Equal(t, "75%", res.Value.HiringPercentage)
	assert.Equal(t, []string{
		"Structure answers with STAR",
		"Quantify outcomes",
		"Slow down when explaining trade-offs",
	}, res.Value.AreasForImprovement)
	assert.Equal(t, "Strong fundamentals, keep practicing delivery.", res.Value.OverallMessage)
}

func TestParseOverallVariants(t *testing.T) {
	t.Run("overall feedback alias", func(t *testing.T) {
		res, err := parse.ParseOverall("Hiring Percentage: 60\nOverall Feedback: Solid effort.")
		require.NoError(t, err)
		assert.Equal(t, "60%", res.Value.HiringPercentage)
		assert.Equal(t, "Solid effort.", res.Value.OverallMessage)
		assert.True(t, res.Partial()) // improvement list missing
		assert.Empty(t, res.Value.AreasForImprovement)
	})

	t.Run("no markers degrades to message", func(t *testing.T) {
		res, err := parse.ParseOverall("You did well overall.")
		require.NoError(t, err)
		assert.Equal(t, parse.Placeholder, res.Value.HiringPercentage)
		assert.Equal(t, "You did well overall.", res.Value.OverallMessage)
		assert.True(t, res.Partial())
	})

	t.Run("empty improvement block is valid", func(t *testing.T) {
		res, err := parse.ParseOverall("Hiring Percentage: 90%\nAreas for Improvement:\n\nOverall Message: Nearly flawless.")
		require.NoError(t, err)
		assert.Empty(t, res.Value.AreasForImprovement)
		assert.False(t, res.Partial())
	})
}

func TestParseResumeOptimization(t *testing.T) {
	raw := strings.Join([]string{
		"**Match Score:** 82%",
		"**Summary Message:** Good alignment with the role, light on leadership signals.",
		"**Original Resume Analysis - Areas for Improvement:**",
		"- **Add metrics** to the platform migration bullet",
		"- Surface the mentoring work",
		"**Optimized Resume:**",
		"Jane Doe",
		"**Senior Engineer** with 8 years of experience...",
		"**Analysis of Optimization Changes:**",
		"Reordered experience to lead with the migration project.",
	}, "\n")

	res, err := parse.ParseResumeOptimization(raw)
	require.NoError(t, err)
	assert.False(t, res.Partial())
	assert.Equal(t, "82%", res.Value.MatchScore)
	assert.Equal(t, "Good alignment with the role, light on leadership signals.", res.Value.SummaryMessage)
	assert.Equal(t, []string{
		"Add metrics to the platform migration bullet",
		"Surface the mentoring work",
	}, res.Value.OriginalImprovements)
	// Resume text keeps its own markdown.
	assert.Contains(t, res.Value.OptimizedResume, "**Senior Engineer**")
	assert.Equal(t, "Reordered experience to lead with the migration project.", res.Value.ChangesAnalysis)
}

func TestParseResumeOptimizationDegraded(t *testing.T) {
	res, err := parse.ParseResumeOptimization("Here is a rewrite of your resume without any headers.")
	require.NoError(t, err)
	assert.True(t, res.Partial())
	assert.Equal(t, parse.Placeholder, res.Value.MatchScore)
	assert.Equal(t, "Here is a rewrite of your resume without any headers.", res.Value.OptimizedResume)
}
