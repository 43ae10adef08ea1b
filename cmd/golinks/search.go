package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jasantunes/alfred-golinks/pkg/golinks"
	"github.com/jasantunes/alfred-golinks/pkg/workflow"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Query the golinks API and emit Script Filter feedback",
	Long: `Search for go/ links matching QUERY and print Alfred Script Filter
JSON on stdout. Answers are cached under the workflow cache directory;
queries starting with "workflow:" run maintenance actions instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	env, err := resolveEnv(newLogger())
	if err != nil {
		return err
	}
	logger := workflowLogger(env)

	wf, err := workflow.New(env, logger,
		workflow.WithUpdates(updateSlug),
		workflow.WithHelpURL(helpURL),
	)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")

	if msg, handled, err := wf.HandleMagic(cmd.Context(), query); handled {
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	}

	return wf.Run(func() error {
		settings := golinks.SettingsFromEnv(env)
		client := golinks.NewClient(settings.APIURL, env.Version, helpURL, logger)
		return golinks.NewSearcher(wf, client, settings, logger).Do(cmd.Context(), query)
	})
}
