package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"podcaster/internal/api"
	"podcaster/internal/services"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "history"},
		Short:   "List generated podcasts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openRegistry()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			items := api.FromRecords(records)
			if jsonOutput {
				return writeJSON(cmd, api.PodcastListResponse{Podcasts: items})
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No podcasts generated yet")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					formatCreated(item.CreatedAt),
					item.Mode,
					item.Provider,
					strconv.Itoa(item.ScriptWords),
					item.EstimatedDuration,
					yesNo(item.AudioURL != ""),
					item.Title,
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{header: "ID", right: true},
				{header: "Created"},
				{header: "Mode"},
				{header: "Provider"},
				{header: "Words", right: true},
				{header: "Duration"},
				{header: "Audio"},
				{header: "Title", maxWidth: 48},
			}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of podcasts to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one generated podcast with its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid podcast id %q", args[0])
			}
			store, err := ctx.openRegistry()
			if err != nil {
				return err
			}
			defer store.Close()

			detail, err := api.NewHistoryService(store).Describe(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, services.ErrNotFound) {
					return fmt.Errorf("podcast #%d not found", id)
				}
				return err
			}
			if detail == nil {
				return fmt.Errorf("podcast #%d not found", id)
			}
			if jsonOutput {
				return writeJSON(cmd, api.PodcastDetailResponse{Podcast: *detail})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "Podcast #%d\n", detail.ID)
			fmt.Fprintf(out, "  Title:     %s\n", detail.Title)
			fmt.Fprintf(out, "  Created:   %s\n", formatCreated(detail.CreatedAt))
			fmt.Fprintf(out, "  Mode:      %s\n", detail.Mode)
			fmt.Fprintf(out, "  Provider:  %s\n", detail.Provider)
			fmt.Fprintf(out, "  Words:     %d source, %d script\n", detail.SourceWords, detail.ScriptWords)
			fmt.Fprintf(out, "  Duration:  %s\n", detail.EstimatedDuration)
			if detail.Origin != "" {
				fmt.Fprintf(out, "  Origin:    %s\n", detail.Origin)
			}
			if detail.AudioURL != "" {
				audio := detail.AudioURL
				if detail.AudioDegraded {
					audio += " (first segment only)"
				}
				fmt.Fprintf(out, "  Audio:     %s\n", audio)
			}
			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Transcript", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, detail.Transcript)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// formatCreated trims API timestamps to minute precision for tables.
func formatCreated(value string) string {
	if len(value) >= 16 {
		return strings.Replace(value[:16], "T", " ", 1)
	}
	return value
}
