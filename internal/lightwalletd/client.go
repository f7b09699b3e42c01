// Package lightwalletd talks to a lightwalletd server over gRPC.
package lightwalletd

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/zcash/lightwalletd/walletrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	defaultCallTimeout   = 10 * time.Second
	defaultStreamTimeout = 90 * time.Second
	maxRecvMsgSize       = 32 << 20
)

// Config describes the server endpoint.
type Config struct {
	// Target is host:port.
	Target        string
	TLS           bool
	CallTimeout   time.Duration
	StreamTimeout time.Duration
}

// Client is the remote chain client.
type Client struct {
	cfg      Config
	dialOpts []grpc.DialOption
	metrics  Metrics
	logger   *zap.Logger

	mu   sync.RWMutex
	conn *grpc.ClientConn
	rpc  walletrpc.CompactTxStreamerClient
}

// New builds a client and its channel. The channel connects lazily on first use.
func New(cfg Config, metrics Metrics, logger *zap.Logger, opts ...grpc.DialOption) (*Client, error) {
	if cfg.Target == "" {
		return nil, errors.New("lightwalletd target is required")
	}
	if metrics == nil {
		return nil, errors.New("lightwalletd metrics is required")
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	if cfg.StreamTimeout <= 0 {
		cfg.StreamTimeout = defaultStreamTimeout
	}

	creds := insecure.NewCredentials()
	if cfg.TLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	c := &Client{
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.Named("lightwalletd").With(zap.String("target", cfg.Target)),
	}
	c.dialOpts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(maxRecvMsgSize)),
		grpc.WithUnaryInterceptor(grpcMiddleware.ChainUnaryClient(
			grpcPrometheus.UnaryClientInterceptor,
			grpcZap.UnaryClientInterceptor(c.logger),
		)),
		grpc.WithStreamInterceptor(grpcMiddleware.ChainStreamClient(
			grpcPrometheus.StreamClientInterceptor,
			grpcZap.StreamClientInterceptor(c.logger),
		)),
	}, opts...)

	if err := c.dial(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) dial() error {
	conn, err := grpc.NewClient(c.cfg.Target, c.dialOpts...)
	if err != nil {
		return fmt.Errorf("create grpc channel: %w", err)
	}
	c.conn = conn
	c.rpc = walletrpc.NewCompactTxStreamerClient(conn)
	return nil
}

func (c *Client) stub() (walletrpc.CompactTxStreamerClient, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.rpc == nil {
		return nil, ErrClientClosed
	}
	return c.rpc, nil
}

// Reconnect replaces the channel with a fresh one to the same target.
func (c *Client) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.conn
	if err := c.dial(); err != nil {
		return err
	}
	if old != nil {
		if err := old.Close(); err != nil {
			c.logger.Debug("close previous channel", zap.Error(err))
		}
	}
	c.logger.Info("reconnected")
	return nil
}

// Shutdown closes the channel. Later calls fail with ErrClientClosed.
func (c *Client) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		c.logger.Warn("close channel", zap.Error(err))
	}
	c.conn = nil
	c.rpc = nil
}

// LatestBlock returns the server's chain tip.
func (c *Client) LatestBlock(ctx context.Context) (tip model.ChainTip, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_latest_block", err, started)
	}()

	rpc, err := c.stub()
	if err != nil {
		return tip, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	id, err := rpc.GetLatestBlock(ctx, &walletrpc.ChainSpec{})
	if err != nil {
		return tip, classify("get latest block", err)
	}
	height, err := model.NewBlockHeight(id.GetHeight())
	if err != nil {
		return tip, malformed("get latest block", "%v", err)
	}
	return model.ChainTip{Height: height, Hash: id.GetHash()}, nil
}

// ServerInfo describes the server and the chain it follows.
func (c *Client) ServerInfo(ctx context.Context) (info model.ServerInfo, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_lightd_info", err, started)
	}()

	rpc, err := c.stub()
	if err != nil {
		return info, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	resp, err := rpc.GetLightdInfo(ctx, &walletrpc.Empty{})
	if err != nil {
		return info, classify("get lightd info", err)
	}
	return toServerInfo(resp)
}

// BlockRange streams the blocks of r in ascending order.
func (c *Client) BlockRange(ctx context.Context, r model.HeightRange) (model.BlockStream, error) {
	if r.IsEmpty() {
		return &BlockStream{done: true}, nil
	}
	started := time.Now()

	rpc, err := c.stub()
	if err != nil {
		c.metrics.Observe("get_block_range", err, started)
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.StreamTimeout)
	stream, err := rpc.GetBlockRange(ctx, &walletrpc.BlockRange{
		Start: &walletrpc.BlockID{Height: r.Start.Uint64()},
		End:   &walletrpc.BlockID{Height: r.End.Uint64()},
	})
	if err != nil {
		cancel()
		err = classify("get block range", err)
		c.metrics.Observe("get_block_range", err, started)
		return nil, err
	}
	return &BlockStream{
		stream:  stream,
		cancel:  cancel,
		want:    r,
		started: started,
		metrics: c.metrics,
	}, nil
}

// SubmitTransaction broadcasts a raw transaction. An empty transaction is rejected without a call.
func (c *Client) SubmitTransaction(ctx context.Context, raw []byte) (result model.SendResult, err error) {
	if len(raw) == 0 {
		return model.SendResult{Code: -1, Message: "transaction is empty"}, nil
	}
	started := time.Now()
	defer func() {
		c.metrics.Observe("send_transaction", err, started)
	}()

	rpc, err := c.stub()
	if err != nil {
		return result, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	resp, err := rpc.SendTransaction(ctx, &walletrpc.RawTransaction{Data: raw})
	if err != nil {
		return result, classify("send transaction", err)
	}
	return model.SendResult{Code: resp.GetErrorCode(), Message: resp.GetErrorMessage()}, nil
}

// FetchTransaction returns the full transaction with the given id (wire byte order).
func (c *Client) FetchTransaction(ctx context.Context, id []byte) (tx model.RawTransaction, err error) {
	if len(id) == 0 {
		return tx, errors.New("transaction id is required")
	}
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_transaction", err, started)
	}()

	rpc, err := c.stub()
	if err != nil {
		return tx, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	resp, err := rpc.GetTransaction(ctx, &walletrpc.TxFilter{Hash: id})
	if err != nil {
		return tx, classify("get transaction", err)
	}
	return toRawTransaction(id, resp), nil
}
