package main

import (
	"flag"
	"os"
	"time"

	"github.com/bellapacxx/crupier/game"
	"github.com/bellapacxx/crupier/models"
	"github.com/bellapacxx/crupier/services"
	"github.com/bellapacxx/crupier/utils/logger"
)

// simulate plays one full round headless and logs what a table would hear.
func main() {
	interval := flag.Duration("interval", game.MinSpeed, "draw interval")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	if err := run(*interval, *level); err != nil {
		logger.Errorf("[FATAL] %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

// run owns every deferred cleanup so main can exit only after they ran.
func run(interval time.Duration, level string) error {
	if err := logger.Configure(level, "console"); err != nil {
		return err
	}
	defer logger.Sync()

	done := make(chan struct{})
	notifier := game.NotifierFunc(func(ev models.Event) {
		if speech := services.Speech(ev); speech != "" {
			logger.Infof("[%02d/%d] %s", ev.Drawn, models.DeckSize, speech)
		}
		if ev.Type == models.EventRoundCompleted {
			close(done)
		}
	})

	round, err := game.NewRound(game.Options{
		Speed:    interval,
		Notifier: notifier,
		Logger:   logger.Named("round"),
	})
	if err != nil {
		return err
	}
	defer round.Close()

	start := time.Now()
	if err := round.Start(); err != nil {
		return err
	}
	<-done

	snap := round.Snapshot()
	logger.Infof("round %s finished in %s, milestones: %v", snap.RoundID, time.Since(start).Round(time.Millisecond), snap.Achieved)
	return nil
}
