package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"podcaster/internal/api"
	"podcaster/internal/services/speech"
)

func newVoicesCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "voices",
		Short:       "List supported voices and podcast modes",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := api.VoicesResponse{
				Voices:  speech.Voices(),
				Default: speech.DefaultVoice,
				Modes:   api.ModeNames(),
			}
			if jsonOutput {
				return writeJSON(cmd, payload)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Voices:")
			for _, voice := range payload.Voices {
				marker := ""
				if voice == payload.Default {
					marker = " (default)"
				}
				fmt.Fprintf(out, "  %s%s\n", voice, marker)
			}
			fmt.Fprintf(out, "Modes: %s\n", strings.Join(payload.Modes, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
