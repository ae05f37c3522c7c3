// Command player is a real-time PCM WAVE playback engine with
// pitch-preserving time-scale modification, FIR equalization, and a
// discrete-step hardware mixer.
package main

import (
	"fmt"
	"os"

	"github.com/agalue/pcmplayer/internal/applog"
	"github.com/agalue/pcmplayer/internal/config"
	"github.com/agalue/pcmplayer/internal/playback"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	handler, logger, err := applog.Open(cfg.LogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer handler.Close()

	logger.Info("starting playback", "tracks", len(cfg.Playlist))

	pl := playback.NewPlaylist(cfg.Playlist)
	driver := playback.New(cfg, logger)

	if err := driver.Run(pl); err != nil {
		logger.Error("playback failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger.Info("playback finished")
	return 0
}
