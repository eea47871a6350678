package practice

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/prepdeck/interview-manager/internal/business"
	"github.com/prepdeck/interview-manager/internal/cmdutils"
	"github.com/prepdeck/interview-manager/internal/config"
	"github.com/prepdeck/interview-manager/internal/interview"
)

func run(ctx context.Context, cfg *config.Config, cmd *cobra.Command, jobCtx interview.Context) error {
	components, closeFn, err := business.NewComponents(ctx, cfg)
	if err != nil {
		return oops.In("main").Wrapf(err, "Failed to initialise the application components")
	}
	defer closeFn()

	s, err := components.Sessions.Create(ctx, interview.KindPractice, jobCtx)
	if err != nil {
		return fmt.Errorf("creating practice session: %w", err)
	}

	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprintf(out, "Practice session %s\n", s.ID)
	fmt.Fprintln(out, "Answer each question, then press Enter.")

	for i := range interview.MaxSteps {
		step, err := components.Sessions.GetStep(ctx, s.ID, i)
		if err != nil {
			return fmt.Errorf("generating question %d: %w", i+1, err)
		}

		fmt.Fprintf(out, "\nQuestion %d of %d: %s\n", i+1, interview.MaxSteps, step.Question)

		answer, err := readAnswer(in, out)
		if err != nil {
			return err
		}

		answered, err := components.Sessions.SubmitAnswer(ctx, s.ID, i, answer)
		if err != nil {
			return fmt.Errorf("submitting answer %d: %w", i+1, err)
		}

		fmt.Fprintf(out, "\nFeedback: %s\n", answered.Feedback)
	}

	overall, err := components.Sessions.Results(ctx, s.ID)
	if err != nil {
		return fmt.Errorf("fetching overall results: %w", err)
	}

	fmt.Fprintf(out, "\n--- Overall Results ---\n")
	fmt.Fprintf(out, "Hiring Percentage: %s\n", overall.HiringPercentage)
	if len(overall.AreasForImprovement) > 0 {
		fmt.Fprintln(out, "Areas for Improvement:")
		for _, area := range overall.AreasForImprovement {
			fmt.Fprintf(out, "  - %s\n", area)
		}
	}
	fmt.Fprintf(out, "%s\n", overall.OverallMessage)

	return nil
}

// readAnswer prompts until a non-empty line arrives.
func readAnswer(in *bufio.Scanner, out io.Writer) (string, error) {
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return "", fmt.Errorf("reading answer: %w", err)
			}
			return "", fmt.Errorf("input closed before the session finished")
		}

		answer := strings.TrimSpace(in.Text())
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(out, "An answer is required.")
	}
}

func Cmd(_ string) *cobra.Command {
	var position, experience, industry string

	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Practice Interview",
		Long:  "Runs an interactive five-question practice interview with per-answer feedback and an overall evaluation.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := cmdutils.Setup(configPath)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, cmd, interview.Context{
				Position:   position,
				Experience: experience,
				Industry:   industry,
			})
		},
	}

	cmd.Flags().StringVar(&position, "position", "", "job position to prepare for")
	cmd.Flags().StringVar(&experience, "experience", "", "experience level")
	cmd.Flags().StringVar(&industry, "industry", "", "industry")
	_ = cmd.MarkFlagRequired("position")

	return cmd
}
