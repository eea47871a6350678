package resume_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	genaimock "github.com/prepdeck/interview-manager/internal/genai/mock"
	"github.com/prepdeck/interview-manager/internal/resume"
	"github.com/prepdeck/interview-manager/internal/resume/memory"
	"github.com/prepdeck/interview-manager/internal/serviceerr"
)

const fullResponse = `**Match Score:** 72%
**Summary Message:** Solid technical background, but the resume undersells leadership experience.
**Original Resume Analysis - Areas for Improvement:**
- Quantify achievements
- Lead with impact
**Optimized Resume:**
# Jane Doe
Senior Engineer with 8 years of experience.
**Analysis of Optimization Changes:** Reordered sections and added metrics.`

func TestOptimizer_Optimize(t *testing.T) {
	t.Parallel()

	gen := genaimock.NewGenerator(genaimock.WithResponses(fullResponse))
	repo := memory.NewRepository()
	o := resume.NewOptimizer(repo, gen)
	ctx := t.Context()

	result, err := o.Optimize(ctx, "my resume text", "the job description")
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "72%", result.MatchScore)
	assert.Equal(t, "Solid technical background, but the resume undersells leadership experience.", result.SummaryMessage)
	assert.Equal(t, []string{"Quantify achievements", "Lead with impact"}, result.OriginalImprovements)
	assert.Contains(t, result.OptimizedResume, "# Jane Doe")
	assert.Equal(t, "Reordered sections and added metrics.", result.ChangesAnalysis)
	assert.Empty(t, result.Warnings)

	// The prompt carries both inputs.
	prompts := gen.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "my resume text")
	assert.Contains(t, prompts[0], "the job description")

	// The result is persisted.
	stored, err := o.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, result, stored)
}

func TestOptimizer_Optimize_Validation(t *testing.T) {
	t.Parallel()

	gen := genaimock.NewGenerator()
	o := resume.NewOptimizer(memory.NewRepository(), gen)
	ctx := t.Context()

	_, err := o.Optimize(ctx, "", "job")
	assert.ErrorIs(t, err, serviceerr.ErrValidation)

	_, err = o.Optimize(ctx, "resume", "  ")
	assert.ErrorIs(t, err, serviceerr.ErrValidation)

	assert.Zero(t, gen.Calls())
}

func TestOptimizer_Optimize_DegradedResponse(t *testing.T) {
	t.Parallel()

	// No recognized sections: the whole text becomes the optimized resume
	// and the missing fields degrade with warnings.
	gen := genaimock.NewGenerator(genaimock.WithResponses("Here is a better resume for you."))
	o := resume.NewOptimizer(memory.NewRepository(), gen)

	result, err := o.Optimize(t.Context(), "resume", "job")
	require.NoError(t, err)
	assert.Equal(t, "Here is a better resume for you.", result.OptimizedResume)
	assert.Equal(t, "N/A", result.MatchScore)
	assert.NotEmpty(t, result.Warnings)
}

func TestOptimizer_Optimize_GenerationFailure(t *testing.T) {
	t.Parallel()

	gen := genaimock.NewGenerator(genaimock.WithErrors(errors.New("provider down")))
	repo := memory.NewRepository()
	o := resume.NewOptimizer(repo, gen)

	_, err := o.Optimize(t.Context(), "resume", "job")
	assert.ErrorIs(t, err, serviceerr.ErrGenerationUnavailable)

	_, err = o.Latest(t.Context())
	assert.ErrorIs(t, err, serviceerr.ErrNotFound, "nothing is stored on failure")
}

func TestOptimizer_Optimize_StoreFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("disk full")
	gen := genaimock.NewGenerator(genaimock.WithResponses(fullResponse))
	o := resume.NewOptimizer(memory.NewRepository(memory.WithStoreError(storeErr)), gen)

	_, err := o.Optimize(t.Context(), "resume", "job")
	assert.ErrorIs(t, err, storeErr)
}

func TestOptimizer_Latest_ReturnsMostRecent(t *testing.T) {
	t.Parallel()

	gen := genaimock.NewGenerator(genaimock.WithResponses(fullResponse))
	repo := memory.NewRepository()
	o := resume.NewOptimizer(repo, gen)
	ctx := t.Context()

	first, err := o.Optimize(ctx, "resume one", "job")
	require.NoError(t, err)
	second, err := o.Optimize(ctx, "resume two", "job")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	latest, err := o.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}
