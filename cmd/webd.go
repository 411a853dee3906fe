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
	"log"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ambyltd/guide-sub000/api"
	"github.com/ambyltd/guide-sub000/daemon/webd"
	"github.com/ambyltd/guide-sub000/metrics/influxdb"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/poidb"
	"github.com/ambyltd/guide-sub000/state"
)

var optHTTPAddr string
var optInflux bool

// webdCmd represents the serve command
var webdCmd = &cobra.Command{
	Use:   "webd",
	Short: "Start the webserver",
	Long:  `Serves the guide API on the internet`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		slog.Info("webd.Run")

		pois, err := poidb.Open(optDatadir, false)
		if err != nil {
			log.Fatalln(err)
		}
		defer pois.Close()

		sessions, err := state.Open(params.DefaultSessionDataDir(optDatadir))
		if err != nil {
			log.Fatalln(err)
		}
		defer sessions.Close()

		guide := api.NewGuide(pois, sessions, params.DefaultGuideConfig())
		defer guide.Close()

		if optInflux {
			done := make(chan struct{})
			defer close(done)
			go influxdb.Subscribe(done)
		}

		server := webd.NewWebDaemon(&params.WebDaemonConfig{
			DataDir: optDatadir,
			ListenerConfig: params.ListenerConfig{
				Address: optHTTPAddr,
				Network: "tcp",
			},
			Guide: guide.Config,
		}, guide)

		if err := server.Run(); err != nil {
			log.Fatalln(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(webdCmd)

	defaults := params.DefaultWebDaemonConfig()

	pFlags := webdCmd.PersistentFlags()
	pFlags.AddFlagSet(&pflag.FlagSet{})
	pFlags.StringVar(&optHTTPAddr, "address", defaults.Address, "HTTP address to listen on")
	pFlags.BoolVar(&optInflux, "influxdb", false, "Export stored samples to InfluxDB (see INFLUXDB_* env)")
}
