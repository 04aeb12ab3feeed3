package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gookit/color"
	"github.com/lodestonemc/lodestone/internals/cmdlog"
	"github.com/lodestonemc/lodestone/internals/credentials"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set by the build (goreleaser)
var Version = "dev"

var logger *cmdlog.Logger = cmdlog.New()

var (
	cfgFile       string
	globalDir     string
	disableColors bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lodestone",
	Short: "Minecraft instances at your service.",
	Long:  "Create, bootstrap and launch minecraft instances from the terminal",

	Example: `
  lodestone instance create "Fabric Adventures" --minecraft 1.19.2 --loader fabric@0.14.19
  lodestone bootstrap fabric-adventures
  lodestone launch fabric-adventures --offline Alex`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	globalDir = filepath.Join(home, ".lodestone")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&disableColors, "no-color", "", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lodestone/config.toml)")
	rootCmd.PersistentFlags().String("instances-dir", "", "directory holding the instances")
	viper.BindPFlag("instancesDir", rootCmd.PersistentFlags().Lookup("instances-dir"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if disableColors || os.Getenv("CI") != "" {
		color.Disable()
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(globalDir)
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("lodestone")
	viper.AutomaticEnv()

	viper.SetDefault("instancesDir", filepath.Join(globalDir, "instances"))
	viper.SetDefault("javaDir", filepath.Join(globalDir, "java"))
	viper.SetDefault("ramMiB", 0)

	// a missing config file is fine, everything has defaults
	_ = viper.ReadInConfig()
}

// credentialStore opens the account store lazily, commands that never
// touch accounts stay keyring-free
func credentialStore() (*credentials.Store, error) {
	return credentials.New(globalDir)
}

func instancesRoot() string {
	return viper.GetString("instancesDir")
}
