package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"podcaster/internal/pipeline"
	"podcaster/internal/podcast"
	"podcaster/internal/registry"
	"podcaster/internal/source"
)

type generateOptions struct {
	text           string
	mode           string
	provider       string
	voice          string
	secondaryVoice string
	instructions   string
	title          string
	audio          bool
	noHistory      bool
	jsonOutput     bool
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [file|url|-]",
		Short: "Generate a podcast from text, a file, a web page, or a feed",
		Long: `Generate a podcast script (and optionally audio) in-process.

The source may be a local file (.txt, .md, .pdf, .docx), an http(s) URL
pointing at an article, PDF, or RSS/Atom feed, "-" for stdin, or inline
text via --text. With no argument, piped stdin is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.log()

			doc, err := resolveSource(cmd, source.NewLoader(logger), opts.text, args)
			if err != nil {
				return err
			}

			var recorder pipeline.Recorder
			if !opts.noHistory {
				store, err := registry.Open(cfg)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer store.Close()
				recorder = store
			}

			svc, err := pipeline.FromConfig(cfg, recorder, logger)
			if err != nil {
				return err
			}

			title := opts.title
			if title == "" && doc.Kind != source.KindText {
				title = doc.Title
			}
			resp, err := svc.Generate(cmd.Context(), podcast.Request{
				Text:           doc.Text,
				Provider:       opts.provider,
				Mode:           opts.mode,
				Instructions:   opts.instructions,
				Voice:          opts.voice,
				SecondaryVoice: opts.secondaryVoice,
				IncludeAudio:   opts.audio,
				Title:          title,
				Origin:         doc.Origin,
			})
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd, generateOutput{Response: resp, Transcript: resp.Script.Transcript})
			}
			out := cmd.OutOrStdout()
			printResponse(out, resp, shouldColorize(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "Inline source text")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Podcast mode: normal-one, normal-two, custom-one, custom-two")
	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "Text-generation provider (defaults to default_provider)")
	cmd.Flags().StringVar(&opts.voice, "voice", "", "Primary voice")
	cmd.Flags().StringVar(&opts.secondaryVoice, "secondary-voice", "", "Second host voice for two-host modes")
	cmd.Flags().StringVarP(&opts.instructions, "instructions", "i", "", "Custom instructions (required for custom modes)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Episode title override")
	cmd.Flags().BoolVarP(&opts.audio, "audio", "a", false, "Synthesize audio")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not record the episode in history")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// generateOutput exposes the transcript, which the API response omits.
type generateOutput struct {
	*podcast.Response
	Transcript string `json:"transcript"`
}

func resolveSource(cmd *cobra.Command, loader *source.Loader, inline string, args []string) (source.Document, error) {
	if strings.TrimSpace(inline) != "" {
		if len(args) > 0 {
			return source.Document{}, errors.New("use either --text or a source argument, not both")
		}
		return source.Document{Text: strings.TrimSpace(inline), Origin: "inline", Kind: source.KindText}, nil
	}
	if len(args) == 0 || args[0] == "-" {
		in := cmd.InOrStdin()
		if len(args) == 0 && !stdinIsPiped(in) {
			return source.Document{}, errors.New("no source given: pass a file, URL, --text, or pipe text on stdin")
		}
		doc, err := source.FromReader(in, "stdin")
		if err != nil {
			return source.Document{}, err
		}
		if doc.Text == "" {
			return source.Document{}, errors.New("stdin was empty")
		}
		return doc, nil
	}
	return loader.Load(cmd.Context(), args[0])
}

func printResponse(out io.Writer, resp *podcast.Response, colorize bool) {
	s := resp.Script
	fmt.Fprintf(out, "Title:    %s\n", s.Title)
	fmt.Fprintf(out, "Mode:     %s\n", s.Mode)
	fmt.Fprintf(out, "Duration: %s\n", s.EstimatedDuration)
	hosts := make([]string, 0, len(s.Hosts))
	for _, h := range s.Hosts {
		label := h.Name
		if h.Voice != "" {
			label = fmt.Sprintf("%s (%s)", h.Name, h.Voice)
		}
		hosts = append(hosts, label)
	}
	fmt.Fprintf(out, "Hosts:    %s\n", strings.Join(hosts, ", "))

	for _, section := range []struct{ title, body string }{
		{"Introduction", s.Introduction},
		{"Main Content", s.MainContent},
		{"Conclusion", s.Conclusion},
	} {
		if strings.TrimSpace(section.body) == "" {
			continue
		}
		fmt.Fprintln(out)
		for _, line := range renderSectionHeader(section.title, colorize) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out, section.body)
	}

	fmt.Fprintln(out)
	switch {
	case resp.AudioURL != "":
		note := fmt.Sprintf("%d segments", resp.Segments)
		if resp.FailedClips > 0 {
			note += fmt.Sprintf(", %d skipped", resp.FailedClips)
		}
		if resp.AudioDegraded {
			note += ", first segment only"
		}
		fmt.Fprintln(out, renderStatusLine("Audio", statusOK, resp.AudioURL+" ("+note+")", colorize))
	case resp.AudioError != "":
		fmt.Fprintln(out, renderStatusLine("Audio", statusWarn, resp.AudioError, colorize))
	}
	if resp.ID > 0 {
		fmt.Fprintln(out, renderStatusLine("History", statusInfo, fmt.Sprintf("saved as #%d", resp.ID), colorize))
	}
}
