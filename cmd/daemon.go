package cmd

import (
	"github.com/Xichen96/sonic-mgmt/pkg/daemon"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// The `daemon` command launches a long-running server that exposes all other commands as HTTP endpoints.
var daemonCmd = &cobra.Command{
	Use: "daemon",
	Example: `  // basic launch
  sonic-mgmt daemon
  // launch with bearer token auth required
  sonic-mgmt daemon --require-auth`,
	Short: "Launch a long-running web server, e.g. for container use",
	Long:  "Exposes all other commands as HTTP endpoints, so that lab power operations can be controlled remotely by authorized users.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Don't expose the `daemon` command itself; that could lead to very weird recursion scenarios.
		// This should apply to any subcommands, as well.
		rootCmd.RemoveCommand(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return daemon.RunServer(rootCmd)
	},
}

func init() {
	daemonCmd.Flags().StringP("endpoint", "e", "localhost:8080", "Root endpoint for the daemon to listen on")
	daemonCmd.Flags().Bool("require-auth", false, "Require a valid bearer token on every request")

	checkBindFlagError(viper.BindPFlag("daemon.endpoint", daemonCmd.Flags().Lookup("endpoint")))
	checkBindFlagError(viper.BindPFlag("daemon.require-auth", daemonCmd.Flags().Lookup("require-auth")))

	rootCmd.AddCommand(daemonCmd)
}
