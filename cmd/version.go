package cmd

import (
	"fmt"

	sonicmgmt "github.com/Xichen96/sonic-mgmt/internal"
	"github.com/Xichen96/sonic-mgmt/internal/version"
	"github.com/spf13/cobra"
)

// SetVersionInfo stores the build metadata injected by the release
// pipeline. The version command falls back to querying git directly
// when nothing was stamped in.
func SetVersionInfo(v, commit, date string) {
	version.Version = v
	version.GitCommit = commit
	version.BuildTime = date
}

var versionCmd = &cobra.Command{
	Use: "version",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flag("full").Value.String() == "true" {
			fmt.Println(version.VersionInfo())
			return
		}
		if cmd.Flag("rev").Value.String() == "true" {
			if version.GitCommit != "" {
				fmt.Println(version.GitCommit)
			} else {
				fmt.Println(sonicmgmt.VersionCommit())
			}
			return
		}
		if version.IsSet() {
			fmt.Println(version.Short())
		} else {
			fmt.Println(sonicmgmt.VersionTag())
		}
	},
}

func init() {
	versionCmd.Flags().Bool("rev", false, "show the version commit")
	versionCmd.Flags().Bool("full", false, "show full build metadata")
	rootCmd.AddCommand(versionCmd)
}
