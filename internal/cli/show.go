package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChallenHB/mill/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// showPayload is the JSON payload for show output.
type showPayload struct {
	Target   string `json:"target"`
	Value    string `json:"value"`
	Token    int64  `json:"token"`
	RunToken string `json:"run_token"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <target>",
		Short: "Print a target's cached serialized value",
		Long: `Print the serialized value the result cache holds for a target
identity (as rendered "module.name"), without evaluating anything.

Example:
  mill show core.compile --db ./out/mill.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to result cache database")

	return cmd
}

func runShow(cmd *cobra.Command, opts *ShowOptions, name string) error {
	cfg, err := resolveConfig(opts.RootOptions, opts.Database, "")
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "open result cache", err)
	}
	defer st.Close()

	r, ok, err := st.ReadResult(cmd.Context(), name)
	if err != nil {
		return WrapExitError(ExitCommandError, "read result", err)
	}
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("no cached value for %q", name))
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return f.Success(showPayload{
			Target:   r.Identity,
			Value:    r.Value,
			Token:    r.Token,
			RunToken: r.RunToken,
		})
	}
	return f.Success(r.Value)
}
