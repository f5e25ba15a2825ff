package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChallenHB/mill/internal/eval"
)

// planPayload is the JSON payload for plan output.
type planPayload struct {
	Order []string `json:"order"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions, reg *Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [targets...]",
		Short: "Print the evaluation order without evaluating",
		Long: `Print the deterministic topological order the evaluator would walk
for the named targets (all registered targets when none are named).

Fails with the same definition-time errors evaluation would: cycles
and duplicate identities are reported before anything runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := reg.resolve(args)
			if err != nil {
				return WrapExitError(ExitCommandError, "resolve targets", err)
			}

			order, err := eval.Order(roots...)
			if err != nil {
				return WrapExitError(ExitCommandError, "plan", err)
			}

			names := make([]string, len(order))
			for i, id := range order {
				names[i] = id.String()
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if rootOpts.Format == "json" {
				return f.Success(planPayload{Order: names})
			}
			return f.Success(strings.Join(names, "\n"))
		},
	}

	return cmd
}
