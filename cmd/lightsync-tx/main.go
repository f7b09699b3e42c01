package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goodnatureofminers/lightsync/internal/bootstrap"
	"github.com/goodnatureofminers/lightsync/internal/lightwalletd"
	"github.com/goodnatureofminers/lightsync/internal/model"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/jessevdk/go-flags"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

type options struct {
	Network string                  `long:"network" env:"LIGHTSYNC_NETWORK" default:"mainnet" choice:"mainnet" choice:"testnet" description:"chain network"`
	Server  bootstrap.ServerOptions `group:"lightwalletd"`

	Submit submitCommand `command:"submit" description:"broadcast a hex-encoded raw transaction"`
	Fetch  fetchCommand  `command:"fetch" description:"fetch a transaction by id"`
}

type submitCommand struct {
	Args struct {
		Raw string `positional-arg-name:"raw-hex" description:"raw transaction, '-' reads stdin"`
	} `positional-args:"yes" required:"yes"`
}

type fetchCommand struct {
	Args struct {
		ID string `positional-arg-name:"txid" description:"transaction id in display order"`
	} `positional-args:"yes" required:"yes"`
}

var (
	config options
	ctx    context.Context
	logger *zap.Logger
)

func main() {
	var stop context.CancelFunc
	ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	var err error
	logger, err = zap.NewDevelopment()
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
		logger.Fatal("Command failed", zap.Error(err))
	}
}

func dial() (*lightwalletd.Client, error) {
	return bootstrap.Dial(config.Server, model.Network(config.Network), logger)
}

func (c *submitCommand) Execute(_ []string) error {
	raw, err := readRaw(c.Args.Raw)
	if err != nil {
		return err
	}
	client, err := dial()
	if err != nil {
		return err
	}
	defer client.Shutdown()

	result, err := client.SubmitTransaction(ctx, raw)
	if err != nil {
		return err
	}
	if err := printJSON(map[string]any{"code": result.Code, "message": result.Message, "accepted": result.Accepted()}); err != nil {
		return err
	}
	if !result.Accepted() {
		return fmt.Errorf("transaction rejected with code %d", result.Code)
	}
	return nil
}

func (c *fetchCommand) Execute(_ []string) error {
	id, err := model.ParseHash(c.Args.ID)
	if err != nil {
		return fmt.Errorf("parse txid: %w", err)
	}
	client, err := dial()
	if err != nil {
		return err
	}
	defer client.Shutdown()

	tx, err := client.FetchTransaction(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"txid":        model.HashString(tx.ID),
		"minedHeight": uint32(tx.MinedHeight),
		"data":        hex.EncodeToString(tx.Data),
	})
}

func readRaw(arg string) ([]byte, error) {
	if arg == "-" {
		in, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		arg = string(in)
	}
	raw, err := hex.DecodeString(strings.TrimSpace(arg))
	if err != nil {
		return nil, fmt.Errorf("decode raw transaction: %w", err)
	}
	return raw, nil
}

func printJSON(v any) error {
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
