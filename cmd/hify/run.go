package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	l "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hify/internal/config"
	"hify/internal/logging"
	"hify/internal/metadata"
	"hify/internal/orchestrator"
	"hify/internal/resources"
	"hify/internal/serving"
	"hify/internal/userdata"
)

var log *l.Entry = l.WithFields(l.Fields{"pkg": "main"})

func init() {
	rootCmd.Args = cobra.ExactArgs(1)
	rootCmd.RunE = runHify
}

// userDataDir returns the OS-specific user data directory hify defaults to
// when --data-dir is not given (§6), the same "OS user dir + /hify" shape
// as the teacher's fixed /etc/muserv, generalized to a per-user directory
// since hify has no system-service install story.
func userDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving OS user data directory")
	}
	return filepath.Join(base, "hify"), nil
}

func runHify(cmd *cobra.Command, args []string) error {
	musicDir := args[0]

	dataDir := flags.dataDir
	if dataDir == "" {
		var err error
		if dataDir, err = userDataDir(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating data directory %q", dataDir)
	}

	cfg := config.Cfg{
		MusicDir: musicDir,
		DataDir:  dataDir,
		Addr:     flags.addr,
		Port:     flags.port,
		LogLevel: flags.logLevel,
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	ttyTimestamps := flags.tsOnTTY && isTTY(os.Stdout)
	if err := logging.Setup(dataDir, cfg.LogLevel, ttyTimestamps); err != nil {
		return errors.Wrap(err, "setting up logging")
	}

	log.WithFields(l.Fields{"music_dir": musicDir, "data_dir": dataDir}).Info("starting hify")

	albumArts, err := resources.Load(filepath.Join(dataDir, "arts", "album"), resources.AlbumArt)
	if err != nil {
		return errors.Wrap(err, "loading album art cache")
	}
	artistArts, err := resources.Load(filepath.Join(dataDir, "arts", "artist"), resources.ArtistArt)
	if err != nil {
		return errors.Wrap(err, "loading artist art cache")
	}
	userData, err := userdata.Load(filepath.Join(dataDir, "userdata.json"))
	if err != nil {
		return errors.Wrap(err, "loading user data")
	}

	prev, err := orchestrator.LoadIndex(dataDir)
	if err != nil {
		return errors.Wrap(err, "loading prior index")
	}

	mode := orchestrator.Update
	switch {
	case flags.rebuildIndex:
		mode = orchestrator.Rebuild
	case flags.rebuildCache:
		mode = orchestrator.RebuildCache
	case flags.refetchFileTimes:
		mode = orchestrator.RefetchFileTimes
	}
	if flags.rebuildArts {
		// Forcing art regeneration is a RebuildCache pass: the art
		// pipeline re-derives from the current index's album arts and
		// artist participations, which is exactly what §4.C9 does when
		// the prior resource hash no longer matches.
		mode = orchestrator.RebuildCache
	}

	deps := orchestrator.Deps{
		Decoder:    metadata.TagDecoder{},
		AlbumArts:  albumArts,
		ArtistArts: artistArts,
		UserData:   userData,
	}

	res, err := orchestrator.DetectChanges(musicDir, dataDir, prev, mode, deps)
	if err != nil {
		return errors.Wrap(err, "updating catalog")
	}
	for _, w := range res.Warnings {
		log.WithError(w).Warn("non-fatal issue while updating catalog")
	}
	log.WithField("tracks", res.Index.Tracks.Len()).Info("catalog ready")

	if flags.noServer {
		return nil
	}

	state := &serving.State{
		MusicDir:   musicDir,
		DataDir:    dataDir,
		UserData:   userData,
		AlbumArts:  albumArts,
		ArtistArts: artistArts,
	}
	state.Swap(res.Index, res.Search)

	srv := serving.NewServer(fmt.Sprintf("%s:%d", cfg.Addr, cfg.Port), state)
	return srv.Run(context.Background())
}

func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
