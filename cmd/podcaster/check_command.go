package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"podcaster/internal/api"
	"podcaster/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var live bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories, storage, and provider credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{Live: live})
			failed := preflight.Failed(results)

			if jsonOutput {
				if err := writeJSON(cmd, api.FromChecks(results)); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Preflight", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, result := range results {
					fmt.Fprintln(out, renderStatusLine(result.Name, checkKind(result), result.Detail, colorize))
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d required check(s) failed", len(failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "Contact provider APIs instead of only checking for keys")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
