package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/metalagman/milli-ai/internal/generate"
	"github.com/metalagman/milli-ai/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func generateCmd() *cobra.Command {
	var (
		selection     string
		selectionFile string
		render        bool
		renderStyle   string
		showSpinner   bool
	)
	cmd := &cobra.Command{
		Use:   "generate [prompt...]",
		Short: "Send a prompt and print the answer",
		Long: "Send a prompt, optionally with a selection as context, to the configured responses endpoint " +
			"and print the answer. With no arguments or \"-\" the prompt is read from stdin.",
		Aliases: []string{"gen", "ask"},
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if selectionFile != "" {
				if selection != "" {
					return errors.New("use either --selection or --selection-file")
				}
				b, err := os.ReadFile(selectionFile)
				if err != nil {
					return fmt.Errorf("read selection: %w", err)
				}
				selection = string(b)
			}

			tr, err := newTransport()
			if err != nil {
				return err
			}
			var opts []generate.Option
			if viper.GetBool("journal") {
				store, closeFn, err := openJournal()
				if err != nil {
					return err
				}
				defer closeFn()
				opts = append(opts, generate.WithRecorder(store))
			}
			gen := generate.New(newLoader(), tr, opts...)

			call := func() (string, error) {
				return gen.GenerateText(cmd.Context(), prompt, selection)
			}
			var answer string
			if showSpinner {
				answer, err = ui.WithSpinner(cmd.ErrOrStderr(), "Waiting for AI response", call)
			} else {
				answer, err = call()
			}
			if err != nil {
				return err
			}

			if render {
				rendered, err := ui.RenderMarkdown(answer, renderStyle, 100)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), answer)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&selection, "selection", "s", "", "selected text sent as context")
	flags.StringVar(&selectionFile, "selection-file", "", "read the selection from a file")
	flags.BoolVar(&render, "render", false, "render the answer as markdown")
	flags.StringVar(&renderStyle, "render-style", "", "glamour style for --render (dark, light, notty; default auto)")
	flags.BoolVar(&showSpinner, "spinner", false, "show a spinner on stderr while waiting")
	flags.String("transport", "curl", "request transport: curl or http")
	flags.String("curl-bin", "curl", "curl executable for the curl transport")
	flags.Bool("journal", false, "record the call outcome in the journal")
	mustBind("transport", flags.Lookup("transport"))
	mustBind("curl_bin", flags.Lookup("curl-bin"))
	mustBind("journal", flags.Lookup("journal"))
	return cmd
}

func readPrompt(args []string, stdin io.Reader) (string, error) {
	var prompt string
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read prompt: %w", err)
		}
		prompt = strings.TrimRight(string(b), "\r\n")
	} else {
		prompt = strings.Join(args, " ")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt is required")
	}
	return prompt, nil
}
