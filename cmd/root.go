/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ambyltd/guide-sub000/params"
)

var cfgFile string
var optDatadir string
var optVerbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "guided",
	Short: "Location analytics for the audio guide",
	Long: `guided is the backend for the audio tour guide:
proximity search over the attraction catalog, audio-guide triggering,
geofencing, journey tracking, walking-route optimization, and
short-horizon movement prediction.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.guided.yaml)")
	rootCmd.PersistentFlags().StringVar(&optDatadir, "datadir", params.DefaultDatadirRoot, "data directory root")
	rootCmd.PersistentFlags().BoolVarP(&optVerbose, "verbose", "v", false, "debug logging")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".guided" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".guided")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaultSlog(cmd *cobra.Command, args []string) {
	level := slog.LevelInfo
	if optVerbose {
		level = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(level)
}
