package network

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/chainproxy/bitcoind-gateway/internal/http/respond"
	"github.com/chainproxy/bitcoind-gateway/internal/http/validate"
	"github.com/chainproxy/bitcoind-gateway/internal/pkg/node"
)

type handler struct {
	log       *slog.Logger
	node      *node.Client
	validator *validator.Validate
}

type nodeAddressesParams struct {
	Count int `validate:"gte=1,lte=1000"` // default 10
}

func New(log *slog.Logger, nodeClient *node.Client, v *validator.Validate) *handler {
	return &handler{
		log:       log,
		node:      nodeClient,
		validator: v,
	}
}

func (h *handler) forward(w http.ResponseWriter, r *http.Request, method string, params []any) {
	result, err := h.node.Call(r.Context(), method, params)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}

	respond.OK(w, result)
}

func (h *handler) ConnectionCount(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "getconnectioncount", nil)
}

func (h *handler) NetTotals(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "getnettotals", nil)
}

func (h *handler) Info(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "getnetworkinfo", nil)
}

func (h *handler) Peers(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "getpeerinfo", nil)
}

func (h *handler) NodeAddresses(w http.ResponseWriter, r *http.Request) {
	c := validate.NewCollector()
	p := nodeAddressesParams{
		Count: c.Int("count", r.URL.Query().Get("count"), 10),
	}

	if verr := validate.Check(h.validator, &p, c.Problems()); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, "getnodeaddresses", []any{p.Count})
}
