package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jasantunes/alfred-golinks/internal/wfdir"
	"github.com/jasantunes/alfred-golinks/pkg/logging"
	"github.com/jasantunes/alfred-golinks/pkg/workflow"
)

const (
	helpURL    = "https://github.com/jasantunes/alfred-golinks"
	updateSlug = "jasantunes/alfred-golinks"
)

var (
	logLevel  string
	plistPath string
	rootCmd   *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "golinks",
		Short: "Golinks search workflow for Alfred",
		Long: `Golinks search workflow for Alfred.

Reads the workflow's info.plist, materializes the environment Alfred
would provide (env, run), and serves the Script Filter itself (search).`,
		// Errors bubble up through RunE and are printed once by main.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&plistPath, "plist", "", "Path to info.plist (default: walk up from CWD)")

	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(infoCmd)
}

// newLogger builds the stderr logger from --log-level or the ambient
// environment.
func newLogger() hclog.Logger {
	level := logLevel
	if level == "" {
		level = logging.GetLogLevel()
	}
	return logging.NewLogger("golinks", level, os.Stderr)
}

// workflowLogger rebuilds the logger once the environment is known, so
// messages also land in the workflow's rotated log file.
func workflowLogger(env *workflow.Environment) hclog.Logger {
	level := logLevel
	if level == "" {
		level = logging.GetLogLevel()
	}
	dirs := workflow.NewDirs(env)
	out := io.MultiWriter(os.Stderr, logging.NewRotatingWriter(dirs.LogFile()))
	return logging.NewLogger("golinks", level, out)
}

// locateInfo returns the info.plist path, from --plist or by walking up
// from the working directory.
func locateInfo() (string, error) {
	if plistPath != "" {
		return plistPath, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	root, err := wfdir.FindRoot(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, workflow.InfoFile), nil
}

// buildEnv reads info.plist and constructs the workflow environment.
func buildEnv(logger hclog.Logger) (*workflow.Environment, error) {
	path, err := locateInfo()
	if err != nil {
		return nil, err
	}
	src, err := workflow.NewInfoReader(path)
	if err != nil {
		return nil, err
	}
	return workflow.Build(src, workflow.WithLogger(logger))
}

// resolveEnv prefers the environment Alfred already exported and falls
// back to reading info.plist when running outside the host.
func resolveEnv(logger hclog.Logger) (*workflow.Environment, error) {
	if env, err := workflow.FromEnviron(); err == nil {
		logger.Debug("🌍 Using inherited workflow environment", "bundleid", env.BundleID)
		return env, nil
	}
	logger.Debug("📋 No inherited environment, reading info.plist")
	return buildEnv(logger)
}
