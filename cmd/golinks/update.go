package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasantunes/alfred-golinks/pkg/workflow"
)

var updateInstall bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check GitHub releases for a newer workflow version",
	RunE:  runUpdateCmd,
}

func init() {
	updateCmd.Flags().BoolVar(&updateInstall, "install", false, "Download and open the update when one is available")
}

func runUpdateCmd(cmd *cobra.Command, args []string) error {
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

	status, err := wf.Updater.CheckForUpdate(cmd.Context(), true)
	if err != nil {
		return err
	}

	if !status.Available {
		fmt.Printf("golinks %s is up to date\n", env.Version)
		return nil
	}

	fmt.Printf("Update available: %s (current %s)\n", status.Release.Version, env.Version)
	if !updateInstall {
		return nil
	}

	if err := wf.Updater.Install(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Downloaded update, handing off to Alfred")
	return nil
}
