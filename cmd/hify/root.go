package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var preamble = `hify ` + Version + `

hify is a self-hosted music library server: it scans a directory of audio
files, builds a cross-indexed catalog, generates cover-art derivatives and
serves the result over HTTP.

hify comes with ABSOLUTELY NO WARRANTY. This is free software, and you
are welcome to redistribute it under certain conditions.  See the GNU
General Public Licence for details.`

// flags mirrors §6's CLI surface. Cobra binds these directly to rootCmd's
// persistent flags, and rootCmd's own RunE (runHify, in run.go) builds a
// config.Cfg from them; no config file is read and there is no separate run
// subcommand.
var flags struct {
	dataDir  string
	addr     string
	port     int
	noServer bool

	rebuildIndex     bool
	updateIndex      bool
	rebuildCache     bool
	refetchFileTimes bool
	rebuildArts      bool

	logLevel string
	tsOnTTY  bool
}

var rootCmd = &cobra.Command{
	Use:     "hify",
	Short:   "hify music server",
	Long:    preamble,
	Version: Version,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory for the index, user data and generated art (default: OS user data dir/hify)")
	pf.StringVar(&flags.addr, "addr", "0.0.0.0", "address to bind the HTTP server to")
	pf.IntVar(&flags.port, "port", 8893, "port to bind the HTTP server to")
	pf.BoolVar(&flags.noServer, "no-server", false, "update the catalog and exit without starting the HTTP server")

	pf.BoolVar(&flags.rebuildIndex, "rebuild-index", false, "discard the prior index and rebuild from scratch")
	pf.BoolVar(&flags.updateIndex, "update-index", false, "incrementally update the prior index (default mode)")
	pf.BoolVar(&flags.rebuildCache, "rebuild-cache", false, "rebuild derived art and search caches without re-walking the music directory")
	pf.BoolVar(&flags.refetchFileTimes, "refetch-file-times", false, "refresh recorded file times without re-running metadata analysis")
	pf.BoolVar(&flags.rebuildArts, "rebuild-arts", false, "force regeneration of all cover art derivatives")

	pf.StringVar(&flags.logLevel, "log-level", "info", "logrus level: trace, debug, info, warn, error, fatal, panic")
	pf.BoolVar(&flags.tsOnTTY, "timestamps", true, "show log timestamps (forced on for non-TTY output)")

	rootCmd.MarkFlagsMutuallyExclusive("rebuild-index", "update-index", "rebuild-cache", "refetch-file-times")
	rootCmd.MarkFlagsMutuallyExclusive("rebuild-index", "rebuild-arts")
	rootCmd.MarkFlagsMutuallyExclusive("no-server", "addr")
	rootCmd.MarkFlagsMutuallyExclusive("no-server", "port")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}
