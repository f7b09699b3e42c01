package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/bootstrap"
	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/goodnatureofminers/lightsync/internal/transport"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var config struct {
	Cache    bootstrap.CacheOptions  `group:"cache"`
	Server   bootstrap.ServerOptions `group:"lightwalletd"`
	Sync     bootstrap.SyncOptions   `group:"sync"`
	HTTPAddr string                  `long:"http-addr" env:"LIGHTSYNC_HTTP_ADDR" description:"status and metrics addr" default:":8080"`
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
	grpcZap.ReplaceGrpcLoggerV2(logger)
	if _, err := flags.Parse(&config); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("Failed to parse arguments", zap.Error(err))
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

	handler, err := transport.NewHandler(transport.NewStatusHandler(
		node.Processor, node.Identity.Network, node.Identity.Alias, logger.Named("transport"),
	))
	if err != nil {
		logger.Fatal("Register status handler", zap.Error(err))
	}
	srv := transport.NewServer(config.HTTPAddr, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer node.Processor.Stop()
		return node.Processor.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("Serving status", zap.String("addr", config.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		statuses, cancel := node.Processor.Subscribe()
		defer cancel()
		var last model.Phase
		for {
			select {
			case <-gctx.Done():
				return nil
			case s, ok := <-statuses:
				if !ok {
					return nil
				}
				if phase := s.State.Phase(); phase != last {
					logger.Info("Sync status",
						zap.String("phase", string(phase)),
						zap.Float64("progress", s.Progress),
						zap.Stringer("last_scanned", s.LastScanned),
						zap.Stringer("chain_tip", s.ChainTip),
					)
					last = phase
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Sync stopped", zap.Error(err))
		return
	}
	logger.Info("Sync stopped")
}
