package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChallenHB/mill/internal/eval"
	"github.com/ChallenHB/mill/internal/store"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Database string
	OutDir   string
}

// evalReport is the JSON payload for eval output.
type evalReport struct {
	RunToken string             `json:"run_token"`
	Targets  []evalTargetResult `json:"targets"`
	Changed  []string           `json:"changed"`
}

type evalTargetResult struct {
	Target    string `json:"target"`
	Status    string `json:"status"`
	Value     string `json:"value,omitempty"`
	Error     string `json:"error,omitempty"`
	BlockedBy string `json:"blocked_by,omitempty"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions, reg *Registry) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval [targets...]",
		Short: "Evaluate targets incrementally",
		Long: `Evaluate the named targets (all registered targets when none are named).

Only targets whose inputs or external state changed since the last run
are re-evaluated; everything else is served from the result cache.

Example:
  mill eval core.compile --db ./out/mill.db
  mill eval --config build.yml --verbose`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, opts, reg, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to result cache database")
	cmd.Flags().StringVar(&opts.OutDir, "out", "", "base directory for target outputs")

	return cmd
}

func runEval(cmd *cobra.Command, opts *EvalOptions, reg *Registry, args []string) error {
	cfg, err := resolveConfig(opts.RootOptions, opts.Database, opts.OutDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}

	roots, err := reg.resolve(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "resolve targets", err)
	}
	if len(roots) == 0 {
		return NewExitError(ExitCommandError, "no targets registered")
	}

	if err := ensureDatabaseDir(cfg); err != nil {
		return WrapExitError(ExitCommandError, "prepare cache", err)
	}
	st, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "open result cache", err)
	}
	defer st.Close()

	ev := eval.New(eval.WithStore(st), eval.WithOutDir(cfg.OutDir))
	report, err := ev.Evaluate(cmd.Context(), roots...)
	if err != nil {
		// Plan errors: cycle or duplicate identity.
		return WrapExitError(ExitCommandError, "plan evaluation", err)
	}

	payload := buildEvalReport(report)
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		if err := f.Success(payload); err != nil {
			return err
		}
	} else {
		if err := f.Success(formatEvalText(payload)); err != nil {
			return err
		}
	}

	for _, r := range payload.Targets {
		if r.Status != string(eval.StatusSucceeded) {
			return NewExitError(ExitFailure, "evaluation finished with failed targets")
		}
	}
	return nil
}

// buildEvalReport flattens a run report into the output payload,
// preserving the registry/request order of the roots.
func buildEvalReport(report *eval.Report) evalReport {
	out := evalReport{RunToken: report.RunToken}

	for _, id := range report.Changed {
		out.Changed = append(out.Changed, id.String())
	}

	for _, id := range report.Roots {
		res := report.Results[id]
		tr := evalTargetResult{
			Target: res.Identity.String(),
			Status: string(res.Status),
		}
		switch res.Status {
		case eval.StatusSucceeded:
			tr.Value = string(res.Serialized)
		case eval.StatusBlocked:
			tr.BlockedBy = res.BlockedBy.String()
			tr.Error = res.Err.Error()
		default:
			tr.Error = res.Err.Error()
		}
		out.Targets = append(out.Targets, tr)
	}
	return out
}

func formatEvalText(r evalReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", r.RunToken)
	for _, t := range r.Targets {
		switch t.Status {
		case string(eval.StatusSucceeded):
			fmt.Fprintf(&b, "ok      %s  %s\n", t.Target, t.Value)
		case string(eval.StatusBlocked):
			fmt.Fprintf(&b, "blocked %s  (upstream %s failed)\n", t.Target, t.BlockedBy)
		default:
			fmt.Fprintf(&b, "FAIL    %s  %s\n", t.Target, t.Error)
		}
	}
	if len(r.Changed) > 0 {
		fmt.Fprintf(&b, "changed: %s", strings.Join(r.Changed, ", "))
	} else {
		b.WriteString("changed: none")
	}
	return b.String()
}
