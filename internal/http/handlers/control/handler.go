package control

import (
	"log/slog"
	"net/http"

	"github.com/chainproxy/bitcoind-gateway/internal/http/respond"
	"github.com/chainproxy/bitcoind-gateway/internal/pkg/node"
)

type handler struct {
	log  *slog.Logger
	node *node.Client
}

func New(log *slog.Logger, nodeClient *node.Client) *handler {
	return &handler{
		log:  log,
		node: nodeClient,
	}
}

func (h *handler) RpcInfo(w http.ResponseWriter, r *http.Request) {
	result, err := h.node.Call(r.Context(), "getrpcinfo", nil)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}

	respond.OK(w, result)
}

func (h *handler) IndexInfo(w http.ResponseWriter, r *http.Request) {
	params := []any{}
	if index := r.URL.Query().Get("index"); index != "" {
		params = append(params, index)
	}

	result, err := h.node.Call(r.Context(), "getindexinfo", params)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}

	respond.OK(w, result)
}
