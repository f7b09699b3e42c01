package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/goodnatureofminers/lightsync/internal/bootstrap"
	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

var config struct {
	Cache  bootstrap.CacheOptions  `group:"cache"`
	Server bootstrap.ServerOptions `group:"lightwalletd"`
	Sync   bootstrap.SyncOptions   `group:"sync"`
	Height uint64                  `long:"height" env:"LIGHTSYNC_REWIND_HEIGHT" description:"height to keep, later blocks are dropped" required:"true"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	if _, err := flags.Parse(&config); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}

	height, err := model.NewBlockHeight(config.Height)
	if err != nil {
		logger.Fatal("Invalid height", zap.Error(err))
	}

	node, err := bootstrap.Build(config.Cache, config.Server, config.Sync, logger)
	if err != nil {
		logger.Fatal("Build sync node", zap.Error(err))
	}
	defer func() {
		if err := node.Close(); err != nil {
			logger.Error("Close sync node", zap.Error(err))
		}
	}()

	target, err := node.Processor.RewindTo(ctx, height)
	if err != nil {
		logger.Error("Rewind failed", zap.Stringer("height", height), zap.Error(err))
		return
	}
	logger.Info("Rewound", zap.Stringer("requested", height), zap.Stringer("target", target))
}
