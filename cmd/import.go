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
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ambyltd/guide-sub000/api"
	"github.com/ambyltd/guide-sub000/common"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/poidb"
	"github.com/ambyltd/guide-sub000/state"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the POI catalog from stdin",
	Long: `
Records are decoded as JSON lines from stdin: one POI per line, with its
audio-guide anchors inline. Invalid records are skipped and counted,
duplicates are dropped.

Examples:

  zcat catalog.json.gz | guided import
  guided import < pois.ndjson

Imports are idempotent; re-running with the same input upserts in place.
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			sig := <-common.Interrupted()
			slog.Warn("Received signal", "signal", sig)
			cancel()
		}()

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

		imported, skipped, err := guide.ImportCatalog(ctx, os.Stdin)
		if err != nil {
			log.Fatalln(err)
		}
		slog.Info("Import done", "imported", imported, "skipped", skipped)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
