package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/jasantunes/alfred-golinks/pkg/workflow"
)

var runCmd = &cobra.Command{
	Use:   "run -- CMD [ARGS...]",
	Short: "Run a command with the workflow environment injected",
	Long: `Build the workflow environment from info.plist and spawn CMD with it
merged over the current environment, the same variables Alfred itself
would export. Stdio is passed through and the child's exit code is
propagated.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRunCmd,
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	env, err := buildEnv(logger)
	if err != nil {
		return err
	}

	child := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
	child.Env = env.Environ(os.Environ())
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	workflow.LogEnviron(child.Env, logger)
	logger.Info("🚀 Spawning child process", "command", child.Path, "args", child.Args[1:])

	if err := child.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", args[0], err)
	}

	if err := child.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			logger.Info("⏹️ Process exited with error", "code", code)
			os.Exit(code)
		}
		return fmt.Errorf("process failed: %w", err)
	}

	logger.Debug("⏹️ Process exited successfully", "code", 0)
	return nil
}
