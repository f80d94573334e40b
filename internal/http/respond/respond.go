// Package respond writes the one envelope shape every endpoint shares:
// {success:true, data:...} on success, {success:false, error:{...}} on any
// classified failure.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/chainproxy/bitcoind-gateway/internal/pkg/gatewayerr"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Status  int      `json:"status"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func OK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(successEnvelope{
		Success: true,
		Data:    data,
	})
}

// Err logs one structured record and writes the classified envelope. No error
// is suppressed: every non-success outcome reaches both the log and the
// client.
func Err(w http.ResponseWriter, log *slog.Logger, err error) {
	classified := gatewayerr.From(err)

	log.Error("request failed",
		slog.String("kind", string(classified.Kind)),
		slog.String("code", classified.Code),
		slog.Int("status", classified.Status),
		slog.String("message", classified.Message),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(classified.Status)

	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Success: false,
		Error: errorBody{
			Status:  classified.Status,
			Code:    classified.Code,
			Message: classified.Message,
			Details: classified.Details,
		},
	})
}
