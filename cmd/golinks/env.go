package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jasantunes/alfred-golinks/pkg/utils/shellquote"
)

var envJSON bool

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the workflow environment as shell export lines",
	Long: `Read info.plist, derive the workflow directories for the detected
Alfred generation and print the complete variable set:

  eval "$(golinks env)"

Any missing configuration key aborts with a non-zero exit before a
single variable is printed.`,
	RunE: runEnvCmd,
}

func init() {
	envCmd.Flags().BoolVar(&envJSON, "json", false, "Print the environment as a JSON object")
}

func runEnvCmd(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	env, err := buildEnv(logger)
	if err != nil {
		return err
	}

	m := env.Map()

	if envJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Println(shellquote.ExportLine(k, m[k]))
	}
	return nil
}
