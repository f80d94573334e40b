package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/chainproxy/bitcoind-gateway/internal/connectors/metrics"
	"github.com/chainproxy/bitcoind-gateway/internal/env"
	"github.com/chainproxy/bitcoind-gateway/internal/pkg/node"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 45 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

type App struct {
	Logger    *slog.Logger
	Metrics   *metrics.Store
	Node      *node.Client
	Validator *validator.Validate
	cfg       *env.AppConfig
}

func New(cfg *env.AppConfig, log *slog.Logger, promStore *metrics.Store, nodeClient *node.Client, v *validator.Validate) *App {
	return &App{
		Logger:    log,
		Metrics:   promStore,
		Node:      nodeClient,
		Validator: v,
		cfg:       cfg,
	}
}

func (a *App) RunHTTPServer(ctx context.Context, g *errgroup.Group, appPort uint, router http.Handler) {
	server := &http.Server{
		Addr:           fmt.Sprintf(`:%d`, appPort),
		Handler:        router,
		ReadTimeout:    defaultReadTimeout,
		WriteTimeout:   defaultWriteTimeout,
		IdleTimeout:    defaultIdleTimeout,
		MaxHeaderBytes: http.DefaultMaxHeaderBytes,
	}

	g.Go(func() error {
		return server.ListenAndServe()
	})

	g.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(ctx)
	})
}
