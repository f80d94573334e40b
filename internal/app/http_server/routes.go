package server

import (
	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chainproxy/bitcoind-gateway/internal/http/handlers/blockchain"
	"github.com/chainproxy/bitcoind-gateway/internal/http/handlers/control"
	"github.com/chainproxy/bitcoind-gateway/internal/http/handlers/health"
	"github.com/chainproxy/bitcoind-gateway/internal/http/handlers/mining"
	"github.com/chainproxy/bitcoind-gateway/internal/http/handlers/network"
	"github.com/chainproxy/bitcoind-gateway/internal/http/handlers/util"
)

func (a *App) RegisterRoutes(r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", health.New().Handler)
	r.Get("/metrics", promhttp.HandlerFor(a.Metrics.Prometheus, promhttp.HandlerOpts{}).ServeHTTP)

	blockchainH := blockchain.New(a.Logger, a.Node, a.Validator)
	networkH := network.New(a.Logger, a.Node, a.Validator)
	miningH := mining.New(a.Logger, a.Node, a.Validator)
	controlH := control.New(a.Logger, a.Node)
	utilH := util.New(a.Logger, a.Node, a.Validator)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/blockchain", func(r chi.Router) {
			r.Get("/info", blockchainH.Info)
			r.Get("/bestblockhash", blockchainH.BestBlockHash)
			r.Get("/bestblockhash/decimals", blockchainH.BestBlockHashDecimals)
			r.Get("/block/{hash}", blockchainH.Block)
			r.Get("/blockcount", blockchainH.BlockCount)
			r.Get("/blockhash/{height}", blockchainH.BlockHash)
			r.Get("/blockheader/{hash}", blockchainH.BlockHeader)
			r.Get("/blockstats/{hashOrHeight}", blockchainH.BlockStats)
			r.Get("/chaintips", blockchainH.ChainTips)
			r.Get("/chaintxstats", blockchainH.ChainTxStats)
			r.Get("/difficulty", blockchainH.Difficulty)
			r.Get("/mempool/ancestors/{txid}", blockchainH.MempoolAncestors)
			r.Get("/mempool/descendants/{txid}", blockchainH.MempoolDescendants)
			r.Get("/mempool/entry/{txid}", blockchainH.MempoolEntry)
			r.Get("/mempool/info", blockchainH.MempoolInfo)
			r.Get("/mempool/raw", blockchainH.RawMempool)
			r.Get("/txout/{txid}/{n}", blockchainH.TxOut)
			r.Post("/txoutproof", blockchainH.TxOutProof)
			r.Post("/txoutproof/verify", blockchainH.VerifyTxOutProof)
			r.Post("/scantxoutset", blockchainH.ScanTxOutSet)
		})

		r.Route("/network", func(r chi.Router) {
			r.Get("/connectioncount", networkH.ConnectionCount)
			r.Get("/nettotals", networkH.NetTotals)
			r.Get("/info", networkH.Info)
			r.Get("/peers", networkH.Peers)
			r.Get("/nodeaddresses", networkH.NodeAddresses)
		})

		r.Route("/mining", func(r chi.Router) {
			r.Get("/info", miningH.Info)
			r.Get("/networkhashps", miningH.NetworkHashPS)
		})

		r.Route("/control", func(r chi.Router) {
			r.Get("/rpcinfo", controlH.RpcInfo)
			r.Get("/indexinfo", controlH.IndexInfo)
		})

		r.Route("/util", func(r chi.Router) {
			r.Post("/multisig", utilH.CreateMultisig)
			r.Post("/deriveaddresses", utilH.DeriveAddresses)
			r.Get("/estimatesmartfee/{confTarget}", utilH.EstimateSmartFee)
			r.Post("/descriptorinfo", utilH.DescriptorInfo)
			r.Get("/validateaddress/{address}", utilH.ValidateAddress)
			r.Post("/verifymessage", utilH.VerifyMessage)
			r.Get("/hash-decimals/{hex}", utilH.HashDecimals)
		})
	})
}
