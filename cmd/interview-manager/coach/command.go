package coach

import (
	"context"
	"fmt"

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

	s, err := components.Sessions.Create(ctx, interview.KindCoach, jobCtx)
	if err != nil {
		return fmt.Errorf("creating coach session: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Coach session %s\n\n", s.ID)

	for i := range interview.MaxSteps {
		step, err := components.Sessions.GetStep(ctx, s.ID, i)
		if err != nil {
			return fmt.Errorf("generating question %d: %w", i+1, err)
		}

		fmt.Fprintf(out, "Question %d: %s\n", i+1, step.Question)
		fmt.Fprintf(out, "Ideal Answer: %s\n\n", step.IdealAnswer)
	}

	return nil
}

func Cmd(_ string) *cobra.Command {
	var position, experience, industry string

	cmd := &cobra.Command{
		Use:   "coach",
		Short: "Interview Coach",
		Long:  "Generates five interview questions with ideal answers for a given position.",
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
