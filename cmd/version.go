package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kjourdan1/hbstree/internal/config"
	"github.com/kjourdan1/hbstree/internal/output"
)

// Set with -ldflags "-X github.com/kjourdan1/hbstree/cmd.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// versionInfo is the --json payload of the version command.
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	Go        string `json:"go"`
	Config    string `json:"configApiVersion"`
}

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print hbstree version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		output.Init(verbosity > 0, jsonOutput)
		info := versionInfo{
			Version:   Version,
			Commit:    Commit,
			BuildDate: BuildDate,
			Go:        runtime.Version(),
			Config:    config.APIVersion,
		}
		switch {
		case jsonOutput:
			output.JSON(info)
		case versionShort:
			fmt.Fprintln(cmd.OutOrStdout(), info.Version)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "hbstree version %s (commit: %s, built: %s, %s)\nconfig: %s\n",
				info.Version, info.Commit, info.BuildDate, info.Go, info.Config)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print the version number only")
	rootCmd.AddCommand(versionCmd)
}
