package util

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

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

type multisigBody struct {
	NRequired   int      `json:"nrequired" validate:"required,gte=1,lte=20"`
	Keys        []string `json:"keys" validate:"required,min=2,max=20,dive,pubkey"`
	AddressType string   `json:"address_type" validate:"oneof=legacy p2sh-segwit bech32"` // default legacy
}

type deriveAddressesBody struct {
	Descriptor string          `json:"descriptor" validate:"required"`
	Range      json.RawMessage `json:"range"`
}

type estimateSmartFeeParams struct {
	ConfTarget   int    `validate:"gte=1,lte=1008"`
	EstimateMode string `validate:"oneof=UNSET ECONOMICAL CONSERVATIVE"` // default CONSERVATIVE
}

type descriptorInfoBody struct {
	Descriptor string `json:"descriptor" validate:"required"`
}

type validateAddressParams struct {
	Address string `validate:"required,min=26,max=90"`
}

type verifyMessageBody struct {
	Address   string `json:"address" validate:"required,min=26,max=90"`
	Signature string `json:"signature" validate:"required"`
	Message   string `json:"message"`
}

type hashDecimalsParams struct {
	Hex string `validate:"required,max=64,hexstring"`
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

func (h *handler) decode(w http.ResponseWriter, r *http.Request, body any) bool {
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		respond.Err(w, h.log, gatewayerr.Validation([]string{fmt.Sprintf("invalid JSON body: %v", err)}))
		return false
	}

	return true
}

func (h *handler) CreateMultisig(w http.ResponseWriter, r *http.Request) {
	var body multisigBody
	if !h.decode(w, r, &body) {
		return
	}

	if body.AddressType == "" {
		body.AddressType = "legacy"
	}

	if verr := validate.Check(h.validator, &body, nil); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, "createmultisig", []any{body.NRequired, body.Keys, body.AddressType})
}

func (h *handler) DeriveAddresses(w http.ResponseWriter, r *http.Request) {
	var body deriveAddressesBody
	if !h.decode(w, r, &body) {
		return
	}

	c := validate.NewCollector()
	descriptorRange := parseRange(body.Range, c)

	if verr := validate.Check(h.validator, &body, c.Problems()); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	params := []any{body.Descriptor}
	if descriptorRange != nil {
		params = append(params, descriptorRange)
	}

	h.forward(w, r, "deriveaddresses", params)
}

func (h *handler) EstimateSmartFee(w http.ResponseWriter, r *http.Request) {
	c := validate.NewCollector()
	p := estimateSmartFeeParams{
		ConfTarget:   c.Int("conf_target", chi.URLParam(r, "confTarget"), 0),
		EstimateMode: r.URL.Query().Get("estimate_mode"),
	}
	if p.EstimateMode == "" {
		p.EstimateMode = "CONSERVATIVE"
	}

	if verr := validate.Check(h.validator, &p, c.Problems()); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, "estimatesmartfee", []any{p.ConfTarget, p.EstimateMode})
}

func (h *handler) DescriptorInfo(w http.ResponseWriter, r *http.Request) {
	var body descriptorInfoBody
	if !h.decode(w, r, &body) {
		return
	}

	if verr := validate.Check(h.validator, &body, nil); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, "getdescriptorinfo", []any{body.Descriptor})
}

func (h *handler) ValidateAddress(w http.ResponseWriter, r *http.Request) {
	p := validateAddressParams{Address: chi.URLParam(r, "address")}

	if verr := validate.Check(h.validator, &p, nil); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, "validateaddress", []any{p.Address})
}

func (h *handler) VerifyMessage(w http.ResponseWriter, r *http.Request) {
	var body verifyMessageBody
	if !h.decode(w, r, &body) {
		return
	}

	if verr := validate.Check(h.validator, &body, nil); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	h.forward(w, r, "verifymessage", []any{body.Address, body.Signature, body.Message})
}

type hashDecimalsResponse struct {
	Hex      string                     `json:"hex"`
	Suffixes map[string]hexsuffix.Value `json:"suffixes"`
}

// HashDecimals is purely local: no upstream call is made.
func (h *handler) HashDecimals(w http.ResponseWriter, r *http.Request) {
	p := hashDecimalsParams{Hex: chi.URLParam(r, "hex")}

	if verr := validate.Check(h.validator, &p, nil); verr != nil {
		respond.Err(w, h.log, verr)
		return
	}

	table, err := hexsuffix.Derive(p.Hex)
	if err != nil {
		respond.Err(w, h.log, gatewayerr.Validation([]string{err.Error()}))
		return
	}

	respond.OK(w, hashDecimalsResponse{
		Hex:      p.Hex,
		Suffixes: table.LengthKeyed(),
	})
}

// parseRange accepts the two shapes deriveaddresses does: a single end index
// or a [begin, end] pair, both within 0..10000.
func parseRange(raw json.RawMessage, c *validate.Collector) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var single int
	if err := json.Unmarshal(raw, &single); err == nil {
		if single < 0 || single > 10000 {
			c.Add("range must be within 0..10000")
			return nil
		}
		return single
	}

	var pair []int
	if err := json.Unmarshal(raw, &pair); err == nil {
		if len(pair) != 2 {
			c.Add("range must be an integer or a [begin, end] pair")
			return nil
		}
		if pair[0] < 0 || pair[1] > 10000 || pair[0] > pair[1] {
			c.Add("range pair must satisfy 0 <= begin <= end <= 10000")
			return nil
		}
		return pair
	}

	c.Add("range must be an integer or a [begin, end] pair")
	return nil
}
