package blockchain

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/chainproxy/bitcoind-gateway/internal/http/respond"
	"github.com/chainproxy/bitcoind-gateway/internal/http/validate"
	"github.com/chainproxy/bitcoind-gateway/internal/pkg/gatewayerr"
	"github.com/chainproxy/bitcoind-gateway/internal/pkg/hexsuffix"
	"github.com/chainproxy/bitcoind-gateway/internal/pkg/node"
)

type handler struct {
	log       *slog.Logger
	node      *node.Client
	validator *validator.Validate
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

func (h *handler) Info(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "getblockchaininfo", nil)
}

func (h *handler) BestBlockHash(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "getbestblockhash", nil)
}

func (h *handler) BlockCount(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "getblockcount", nil)
}

func (h *handler) ChainTips(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "getchaintips", nil)
}

func (h *handler) Difficulty(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "getdifficulty", nil)
}

func (h *handler) MempoolInfo(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "getmempoolinfo", nil)
}

func (h *handler) Block(w http.ResponseWriter, r *http.Request) {
	c := validate.NewCollector()
	p := blockParams{
		Hash:      chi.URLParam(r, "hash"),
		Verbosity: c.Int("verbosity", r.URL.Query().Get("verbosity"), 1),
	}

	if verr := validate.Check(h.validator, &p, c.Problems()); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, "getblock", []any{p.Hash, p.Verbosity})
}

func (h *handler) BlockHash(w http.ResponseWriter, r *http.Request) {
	c := validate.NewCollector()
	p := blockHashParams{
		Height: c.Int64("height", chi.URLParam(r, "height"), -1),
	}

	if verr := validate.Check(h.validator, &p, c.Problems()); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, "getblockhash", []any{p.Height})
}

func (h *handler) BlockHeader(w http.ResponseWriter, r *http.Request) {
	c := validate.NewCollector()
	p := blockHeaderParams{
		Hash:    chi.URLParam(r, "hash"),
		Verbose: c.Bool(r.URL.Query().Get("verbose"), true),
	}

	if verr := validate.Check(h.validator, &p, c.Problems()); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, "getblockheader", []any{p.Hash, p.Verbose})
}

// BlockStats accepts either a height or a 64-character hash in the same path
// segment, the way getblockstats itself does.
func (h *handler) BlockStats(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "hashOrHeight")

	var target any
	if height, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
		if height < 0 {
			respond.Err(w, h.log, gatewayerr.Validation([]string{"height must be >= 0"}))
			return
		}
		target = height
	} else {
		p := struct {
			Hash string `validate:"required,hash64"`
		}{Hash: raw}
		if verr := validate.Check(h.validator, &p, nil); verr != nil {
			respond.Err(w, h.log, verr)
			return
		}
		target = raw
	}

	params := []any{target}
	if rawStats := r.URL.Query().Get("stats"); rawStats != "" {
		stats := strings.Split(rawStats, ",")
		for i := range stats {
			stats[i] = strings.TrimSpace(stats[i])
		}
		params = append(params, stats)
	}

	h.forward(w, r, "getblockstats", params)
}

func (h *handler) ChainTxStats(w http.ResponseWriter, r *http.Request) {
	c := validate.NewCollector()
	p := chainTxStatsParams{
		NBlocks:   c.Int("nblocks", r.URL.Query().Get("nblocks"), 0),
		BlockHash: r.URL.Query().Get("blockhash"),
	}

	if verr := validate.Check(h.validator, &p, c.Problems()); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	params := []any{}
	switch {
	case p.BlockHash != "" && p.NBlocks > 0:
		params = append(params, p.NBlocks, p.BlockHash)
	case p.BlockHash != "":
		// positional protocol: null lets the node keep its nblocks default
		params = append(params, nil, p.BlockHash)
	case p.NBlocks > 0:
		params = append(params, p.NBlocks)
	}

	h.forward(w, r, "getchaintxstats", params)
}

func (h *handler) MempoolAncestors(w http.ResponseWriter, r *http.Request) {
	h.mempoolRelatives(w, r, "getmempoolancestors")
}

func (h *handler) MempoolDescendants(w http.ResponseWriter, r *http.Request) {
	h.mempoolRelatives(w, r, "getmempooldescendants")
}

func (h *handler) mempoolRelatives(w http.ResponseWriter, r *http.Request, method string) {
	c := validate.NewCollector()
	p := mempoolTxParams{
		TxID:    chi.URLParam(r, "txid"),
		Verbose: c.Bool(r.URL.Query().Get("verbose"), true),
	}

	if verr := validate.Check(h.validator, &p, c.Problems()); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, method, []any{p.TxID, p.Verbose})
}

func (h *handler) MempoolEntry(w http.ResponseWriter, r *http.Request) {
	p := mempoolEntryParams{TxID: chi.URLParam(r, "txid")}

	if verr := validate.Check(h.validator, &p, nil); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, "getmempoolentry", []any{p.TxID})
}

func (h *handler) RawMempool(w http.ResponseWriter, r *http.Request) {
	c := validate.NewCollector()
	verbose := c.Bool(r.URL.Query().Get("verbose"), true)

	h.forward(w, r, "getrawmempool", []any{verbose})
}

func (h *handler) TxOut(w http.ResponseWriter, r *http.Request) {
	c := validate.NewCollector()
	p := txOutParams{
		TxID:           chi.URLParam(r, "txid"),
		N:              c.Int("n", chi.URLParam(r, "n"), 0),
		IncludeMempool: c.Bool(r.URL.Query().Get("include_mempool"), true),
	}

	if verr := validate.Check(h.validator, &p, c.Problems()); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, "gettxout", []any{p.TxID, p.N, p.IncludeMempool})
}

func (h *handler) TxOutProof(w http.ResponseWriter, r *http.Request) {
	var body txOutProofBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Err(w, h.log, gatewayerr.Validation([]string{fmt.Sprintf("invalid JSON body: %v", err)}))
		return
	}

	if verr := validate.Check(h.validator, &body, nil); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	params := []any{body.TxIDs}
	if body.BlockHash != "" {
		params = append(params, body.BlockHash)
	}

	h.forward(w, r, "gettxoutproof", params)
}

func (h *handler) VerifyTxOutProof(w http.ResponseWriter, r *http.Request) {
	var body verifyTxOutProofBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Err(w, h.log, gatewayerr.Validation([]string{fmt.Sprintf("invalid JSON body: %v", err)}))
		return
	}

	if verr := validate.Check(h.validator, &body, nil); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, "verifytxoutproof", []any{body.Proof})
}

func (h *handler) ScanTxOutSet(w http.ResponseWriter, r *http.Request) {
	var body scanTxOutSetBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Err(w, h.log, gatewayerr.Validation([]string{fmt.Sprintf("invalid JSON body: %v", err)}))
		return
	}

	if verr := validate.Check(h.validator, &body, nil); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	params := []any{body.Action}
	if body.Action == "start" {
		params = append(params, body.ScanObjects)
	}

	h.forward(w, r, "scantxoutset", params)
}

type hashDecimals struct {
	Hash     string                     `json:"hash"`
	Suffixes map[string]hexsuffix.Value `json:"suffixes"`
}

// BestBlockHashDecimals fetches the tip hash and derives the compact decimal
// identifiers from its suffixes in one round trip.
func (h *handler) BestBlockHashDecimals(w http.ResponseWriter, r *http.Request) {
	result, err := h.node.Call(r.Context(), "getbestblockhash", nil)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}

	var hash string
	if err := json.Unmarshal(result, &hash); err != nil {
		respond.Err(w, h.log, gatewayerr.Protocol(fmt.Sprintf("getbestblockhash returned a non-string result: %v", err)))
		return
	}

	table, deriveErr := hexsuffix.Derive(hash)
	if deriveErr != nil {
		respond.Err(w, h.log, gatewayerr.Protocol(fmt.Sprintf("getbestblockhash returned a non-hex hash: %v", deriveErr)))
		return
	}

	respond.OK(w, hashDecimals{
		Hash:     hash,
		Suffixes: table.LengthKeyed(),
	})
}
