// Package resume implements the resume-optimization flow: one generation
// call analyzing a resume against a job description, parsed into a stored
// result.
package resume

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"

	"github.com/prepdeck/interview-manager/internal/genai"
	"github.com/prepdeck/interview-manager/internal/parse"
	"github.com/prepdeck/interview-manager/internal/serviceerr"
)

// Optimization needs headroom for a complete rewritten resume plus the
// analysis sections.
const (
	optimizeMaxTokens   = 2000
	optimizeTemperature = 0.7
	optimizeTimeout     = 180 * time.Second
)

// Optimizer runs resume optimizations and persists their results.
type Optimizer struct {
	results   Repository
	generator genai.Generator
}

// NewOptimizer creates an Optimizer on top of a result repository and a
// text generator.
func NewOptimizer(results Repository, generator genai.Generator) *Optimizer {
	return &Optimizer{
		results:   results,
		generator: generator,
	}
}

// Optimize analyzes resumeText against jobDescription, stores the parsed
// result, and returns it. Both inputs are required.
func (o *Optimizer) Optimize(ctx context.Context, resumeText, jobDescription string) (Optimization, error) {
	resumeText = strings.TrimSpace(resumeText)
	jobDescription = strings.TrimSpace(jobDescription)
	if resumeText == "" || jobDescription == "" {
		return Optimization{}, fmt.Errorf("%w: both resume text and job description are required", serviceerr.ErrValidation)
	}

	text, err := o.generator.Generate(ctx, optimizePrompt(resumeText, jobDescription),
		genai.WithMaxTokens(optimizeMaxTokens),
		genai.WithTemperature(optimizeTemperature),
		genai.WithTimeout(optimizeTimeout),
	)
	if err != nil {
		return Optimization{}, errors.Join(serviceerr.ErrGenerationUnavailable, err)
	}

	res, err := parse.ParseResumeOptimization(text)
	if err != nil {
		return Optimization{}, errors.Join(serviceerr.ErrGenerationUnavailable, err)
	}
	if len(res.Warnings) > 0 {
		slogctx.FromCtx(ctx).Warn("Resume optimization parsed with warnings",
			"warnings", res.Warnings)
	}

	result := Optimization{
		ID:                   uuid.NewString(),
		MatchScore:           res.Value.MatchScore,
		SummaryMessage:       res.Value.SummaryMessage,
		OriginalImprovements: res.Value.OriginalImprovements,
		OptimizedResume:      res.Value.OptimizedResume,
		ChangesAnalysis:      res.Value.ChangesAnalysis,
		Warnings:             res.Warnings,
		CreatedAt:            time.Now().UTC(),
	}
	if err := o.results.Store(ctx, result); err != nil {
		return Optimization{}, fmt.Errorf("store optimization result: %w", err)
	}

	return result, nil
}

// Latest returns the most recently stored optimization result.
func (o *Optimizer) Latest(ctx context.Context) (Optimization, error) {
	return o.results.Latest(ctx)
}

// optimizePrompt asks for the five bolded sections the parser expects.
func optimizePrompt(resumeText, jobDescription string) string {
	var b strings.Builder
	b.WriteString("As an expert resume optimizer, analyze the provided resume against the job description.\n")
	b.WriteString("First, provide a **Match Score:** (e.g., 75%).\n")
	b.WriteString("Then, provide a **Summary Message:** explaining the overall match and areas for improvement of the ORIGINAL resume.\n")
	b.WriteString("Next, list **Original Resume Analysis - Areas for Improvement:** using bullet points. Be specific and actionable.\n")
	b.WriteString("Then, provide an **Optimized Resume:** based on the original, tailored to the job description, ensuring it's a complete and well-formatted resume.\n")
	b.WriteString("Finally, provide an **Analysis of Optimization Changes:** explaining what changes were made and why.\n\n")
	b.WriteString("Ensure all section headers are bolded using double asterisks (e.g., **Match Score:**).\n\n")
	fmt.Fprintf(&b, "Job Description:\n%s\n\n", jobDescription)
	fmt.Fprintf(&b, "Resume:\n%s\n", resumeText)
	return b.String()
}
