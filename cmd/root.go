// The cmd package implements the interface for the sonic-mgmt CLI. The files
// contained in this package only contain implementations for handling CLI
// arguments and passing them to functions within the internal API.
//
// Each CLI subcommand will have at least one corresponding internal file
// with an API routine that implements the command's functionality.
//
// For example:
//
//	cmd/power.go --> internal/power.go ( sonicmgmt.RunPowerSwitch() )
//	cmd/intf.go  --> internal/intf.go ( sonicmgmt.CheckDutInterfaces() )
//	cmd/cache.go --> none (doesn't have API call since it's simple)
package cmd

import (
	"fmt"
	"os"

	sonicmgmt "github.com/Xichen96/sonic-mgmt/internal"
	ilog "github.com/Xichen96/sonic-mgmt/internal/log"
	"github.com/Xichen96/sonic-mgmt/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logLevel ilog.LogLevel = ilog.INFO

// The `root` command doesn't do anything on it's own except display
// a help message and then exits.
var rootCmd = &cobra.Command{
	Use:   "sonic-mgmt",
	Short: "Test lab power and interface management tool",
	Long:  "Controls PDU outlet power for devices under test and verifies device interface status, using connection graph or inventory data to resolve which outlets feed which device.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			err := cmd.Help()
			if err != nil {
				log.Error().Err(err).Msg("failed to print help")
			}
			os.Exit(0)
		}
	},
}

// This Execute() function is called from main to run the CLI.
func Execute() {
	// Load access token from file, if path is provided
	if viper.IsSet("token-path") {
		b, err := os.ReadFile(viper.GetString("token-path"))
		if err == nil {
			viper.Set("access-token", string(b))
		} else {
			log.Warn().Err(err).Msg("failed to load access token from file; continuing without it")
		}
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitializeConfig, initLogger)
	rootCmd.PersistentFlags().IntP("concurrency", "j", -1, "Set the number of concurrent processes")
	rootCmd.PersistentFlags().IntP("timeout", "t", 5, "Set the timeout for requests in seconds")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Set the config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Set to enable/disable verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Set to enable/disable debug messages")
	rootCmd.PersistentFlags().String("access-token", "", "Set the access token")
	rootCmd.PersistentFlags().String("token-path", ".sonic-token", "Set the path to load/save the access token")
	rootCmd.PersistentFlags().String("cache", fmt.Sprintf("/tmp/%s/sonic-mgmt/snapshots.db", util.GetCurrentUsername()), "Set the outlet snapshot cache path")
	rootCmd.PersistentFlags().String("topology-file", "", "Set the connection graph facts file path")
	rootCmd.PersistentFlags().String("inventory-file", "", "Set the PDU inventory file path")
	rootCmd.PersistentFlags().String("pduvars-file", "", "Set the PDU vendor vars file path")
	rootCmd.PersistentFlags().Var(&logLevel, "log-level", "Set the logging level (debug|info|warn|error|disabled|trace)")
	rootCmd.PersistentFlags().String("log-path", "", "Set the path to also write logs to a file")

	// bind viper config flags with cobra
	checkBindFlagError(viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency")))
	checkBindFlagError(viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout")))
	checkBindFlagError(viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")))
	checkBindFlagError(viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")))
	checkBindFlagError(viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")))
	checkBindFlagError(viper.BindPFlag("access-token", rootCmd.PersistentFlags().Lookup("access-token")))
	checkBindFlagError(viper.BindEnv("access-token", "ACCESS_TOKEN"))
	checkBindFlagError(viper.BindPFlag("token-path", rootCmd.PersistentFlags().Lookup("token-path")))
	checkBindFlagError(viper.BindPFlag("cache", rootCmd.PersistentFlags().Lookup("cache")))
	checkBindFlagError(viper.BindPFlag("topology-file", rootCmd.PersistentFlags().Lookup("topology-file")))
	checkBindFlagError(viper.BindPFlag("inventory-file", rootCmd.PersistentFlags().Lookup("inventory-file")))
	checkBindFlagError(viper.BindPFlag("pduvars-file", rootCmd.PersistentFlags().Lookup("pduvars-file")))
	checkBindFlagError(viper.BindPFlag("log-path", rootCmd.PersistentFlags().Lookup("log-path")))
}

func initLogger() {
	level := logLevel
	if viper.GetBool("debug") {
		level = ilog.DEBUG
	}
	if err := ilog.InitWithLogLevel(level, viper.GetString("log-path")); err != nil {
		log.Error().Err(err).Msg("failed to initialize logger")
	}
}

func checkBindFlagError(err error) {
	if err != nil {
		log.Error().Err(err).Msg("failed to bind cobra/viper flag")
	}
}

// InitializeConfig() initializes a new config object by loading it
// from a file given a non-empty string. An explicit --config path must
// exist; the XDG fallback location is optional.
func InitializeConfig() {
	SetDefaults()
	if path := viper.GetString("config"); path != "" {
		if err := sonicmgmt.LoadConfig(path); err != nil {
			log.Error().Err(err).Msg("failed to load config")
		}
		return
	}
	config_dir := os.Getenv("XDG_CONFIG_HOME")
	if config_dir == "" {
		config_dir = "$HOME/.config"
	}
	viper.AddConfigPath(config_dir + "/sonic-mgmt")
	viper.SetConfigName("config")
	// File type left unspecified; Viper will auto-parse based on extension
	// e.g. ~/.config/sonic-mgmt/config.yaml will parse as YAML
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Error().Err(fmt.Errorf("failed to load config file: %w", err)).Msg("failed to load config")
		}
	}
}

// SetDefaults() resets all of the viper properties back to their
// default values.
func SetDefaults() {
	viper.SetDefault("concurrency", -1)
	viper.SetDefault("timeout", 5)
	viper.SetDefault("config", "")
	viper.SetDefault("username", "")
	viper.SetDefault("password", "")
	viper.SetDefault("community", "")
	viper.SetDefault("verbose", false)
	viper.SetDefault("debug", false)
	viper.SetDefault("cache", fmt.Sprintf("/tmp/%s/sonic-mgmt/snapshots.db", util.GetCurrentUsername()))
	viper.SetDefault("topology-file", "")
	viper.SetDefault("inventory-file", "")
	viper.SetDefault("pduvars-file", "")
	viper.SetDefault("power.cycle-delay", 5)
	viper.SetDefault("power.disable-caching", false)
	viper.SetDefault("verify.drivers", []string{"redfish"})
	viper.SetDefault("verify.cacert", "")
	viper.SetDefault("intf.expect-up", true)
	viper.SetDefault("daemon.endpoint", "localhost:8080")
	viper.SetDefault("daemon.require-auth", false)
}
