package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/streamforge/bpctl/internal/utils/logger"
)

var (
	cfgFile  string
	output   string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bpctl",
	Short: "Blueprint compiler for streaming-dataflow applications",
	Long: `bpctl compiles streaming-dataflow application blueprints.

A blueprint declares an application as a set of streamlets and the
connections between their ports. bpctl verifies the blueprint against a
catalog of streamlet descriptors and, when it is valid, builds the
application descriptor an orchestrator deploys to a cluster.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command execution failed", zap.Error(err))
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/bpctl/bpctl.yaml)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "yaml", "output format (yaml|json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")

	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home + "/.config/bpctl")
		viper.SetConfigType("yaml")
		viper.SetConfigName("bpctl")
	}

	viper.AutomaticEnv()

	if err := logger.Init(logLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", zap.String("file", viper.ConfigFileUsed()))
	}
}
