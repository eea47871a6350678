package optimizeresume

import (
	"context"
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/prepdeck/interview-manager/internal/business"
	"github.com/prepdeck/interview-manager/internal/cmdutils"
	"github.com/prepdeck/interview-manager/internal/config"
)

func run(ctx context.Context, cfg *config.Config, cmd *cobra.Command, resumePath, jobPath string) error {
	resumeText, err := cmdutils.ReadInputFile(resumePath)
	if err != nil {
		return fmt.Errorf("reading resume: %w", err)
	}

	jobDescription, err := cmdutils.ReadInputFile(jobPath)
	if err != nil {
		return fmt.Errorf("reading job description: %w", err)
	}

	components, closeFn, err := business.NewComponents(ctx, cfg)
	if err != nil {
		return oops.In("main").Wrapf(err, "Failed to initialise the application components")
	}
	defer closeFn()

	result, err := components.Resumes.Optimize(ctx, resumeText, jobDescription)
	if err != nil {
		return fmt.Errorf("optimizing resume: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Match Score: %s\n\n", result.MatchScore)
	fmt.Fprintf(out, "Summary: %s\n\n", result.SummaryMessage)
	if len(result.OriginalImprovements) > 0 {
		fmt.Fprintln(out, "Areas for Improvement:")
		for _, area := range result.OriginalImprovements {
			fmt.Fprintf(out, "  - %s\n", area)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "--- Optimized Resume ---\n%s\n\n", result.OptimizedResume)
	fmt.Fprintf(out, "--- Changes Analysis ---\n%s\n", result.ChangesAnalysis)

	return nil
}

func Cmd(_ string) *cobra.Command {
	var resumePath, jobPath string

	cmd := &cobra.Command{
		Use:   "optimize-resume",
		Short: "Resume Optimizer",
		Long:  "Analyzes a resume against a job description and produces an optimized version with a match score.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := cmdutils.Setup(configPath)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, cmd, resumePath, jobPath)
		},
	}

	cmd.Flags().StringVar(&resumePath, "resume", "", "path to the resume text file")
	cmd.Flags().StringVar(&jobPath, "job", "", "path to the job description text file")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("job")

	return cmd
}
