package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasantunes/alfred-golinks/pkg/workflow"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the resolved workflow environment and update status",
	RunE:  runInfoCmd,
}

func runInfoCmd(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	env, err := resolveEnv(logger)
	if err != nil {
		return err
	}

	wf, err := workflow.New(env, logger,
		workflow.WithUpdates(updateSlug),
		workflow.WithHelpURL(helpURL),
	)
	if err != nil {
		return err
	}

	updateStatus := "none (cached)"
	if wf.Updater.UpdateAvailable() {
		updateStatus = "available, run 'golinks update --install'"
	}

	fmt.Printf("%s v%s [%s]\n", env.Name, env.Version, env.BundleID)
	fmt.Printf("Mode: %s | Update: %s\n", env.Mode, updateStatus)
	fmt.Printf("Cache: %s\n", env.Cache)
	fmt.Printf("Data:  %s\n", env.Data)
	fmt.Printf("Log:   %s\n", wf.Dirs.LogFile())
	fmt.Printf("\nVariables: api_url=%s | max_results=%s | cache_max_age=%s\n",
		env.APIURL, env.MaxResults, env.CacheMaxAge)
	return nil
}
