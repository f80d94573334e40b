package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	server "github.com/chainproxy/bitcoind-gateway/internal/app/http_server"
	"github.com/chainproxy/bitcoind-gateway/internal/connectors/logger"
	"github.com/chainproxy/bitcoind-gateway/internal/connectors/metrics"
	"github.com/chainproxy/bitcoind-gateway/internal/env"
	"github.com/chainproxy/bitcoind-gateway/internal/http/validate"
	"github.com/chainproxy/bitcoind-gateway/internal/pkg/node"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg, envErr := env.Read("")
	if envErr != nil {
		fmt.Println("Read env error:", envErr.Error())
		os.Exit(1)
	}

	log, sentryClient, logErr := logger.New(&cfg.AppConfig)
	if logErr != nil {
		fmt.Println("Logger error:", logErr.Error())
		os.Exit(1)
	}
	if sentryClient != nil {
		defer sentryClient.Flush(2 * time.Second)
	}

	log.Info(fmt.Sprintf(`started %s application`, cfg.AppConfig.Name))

	r := chi.NewRouter()
	metricsStore := metrics.New(prometheus.NewRegistry(), cfg.AppConfig.MetricsPrefix, cfg.AppConfig.Name, cfg.AppConfig.Env)

	rpcHTTPClient := &http.Client{
		Timeout: time.Duration(cfg.AppConfig.RpcTimeoutSeconds) * time.Second,
	}
	nodeClient := node.NewClient(
		cfg.AppConfig.NodeRpcURL,
		cfg.AppConfig.NodeRpcUser,
		cfg.AppConfig.NodeRpcPassword,
		rpcHTTPClient,
		metricsStore,
	)

	if probeErr := nodeClient.Probe(ctx); probeErr != nil {
		log.Error(fmt.Sprintf(`node is not answering %s: %v`, cfg.AppConfig.NodeRpcURL, probeErr))
		os.Exit(1)
	}
	log.Info("node connection verified")

	app := server.New(&cfg.AppConfig, log, metricsStore, nodeClient, validate.New())

	app.Metrics.BuildInfo.Inc()
	app.RegisterRoutes(r)

	g, gCtx := errgroup.WithContext(ctx)

	app.RunHTTPServer(gCtx, g, cfg.AppConfig.Port, r)
	log.Info(fmt.Sprintf(`listening on :%d`, cfg.AppConfig.Port))

	if err := g.Wait(); err != nil && err != http.ErrServerClosed {
		log.Error(err.Error())
	}

	log.Info(`gateway stopped`)
}
