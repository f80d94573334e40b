package mining

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

// -1 is meaningful upstream: nblocks -1 averages since the last difficulty
// change, height -1 means the current tip.
type networkHashPSParams struct {
	NBlocks int `validate:"gte=-1"` // default 120
	Height  int `validate:"gte=-1"` // default -1
}

func New(log *slog.Logger, nodeClient *node.Client, v *validator.Validate) *handler {
	return &handler{
		log:       log,
		node:      nodeClient,
		validator: v,
	}
}

func (h *handler) Info(w http.ResponseWriter, r *http.Request) {
	result, err := h.node.Call(r.Context(), "getmininginfo", nil)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}

	respond.OK(w, result)
}

func (h *handler) NetworkHashPS(w http.ResponseWriter, r *http.Request) {
	c := validate.NewCollector()
	p := networkHashPSParams{
		NBlocks: c.Int("nblocks", r.URL.Query().Get("nblocks"), 120),
		Height:  c.Int("height", r.URL.Query().Get("height"), -1),
	}

	if verr := validate.Check(h.validator, &p, c.Problems()); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	result, err := h.node.Call(r.Context(), "getnetworkhashps", []any{p.NBlocks, p.Height})
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}

	respond.OK(w, result)
}
