package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jasantunes/alfred-golinks/internal/wfdir"
	"github.com/jasantunes/alfred-golinks/pkg/workflow"
)

var packOutput string

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Package the workflow directory into an .alfredworkflow file",
	RunE:  runPackCmd,
}

func init() {
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "Output path for the package (default: dist/<name>-<version>.alfredworkflow)")
}

func runPackCmd(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	infoPath, err := locateInfo()
	if err != nil {
		return err
	}
	root := filepath.Dir(infoPath)

	src, err := workflow.NewInfoReader(infoPath)
	if err != nil {
		return err
	}
	name, err := src.Get(workflow.KeyName)
	if err != nil {
		return err
	}
	version, err := src.Get(workflow.KeyVersion)
	if err != nil {
		return err
	}

	out, err := wfdir.BuildPackage(root, name, version, packOutput, logger)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
