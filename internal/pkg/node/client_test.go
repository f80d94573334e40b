package node

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chainproxy/bitcoind-gateway/internal/connectors/metrics"
	"github.com/chainproxy/bitcoind-gateway/internal/pkg/gatewayerr"
)

var (
	metricsOnce  sync.Once
	metricsStore *metrics.Store
)

func testMetrics() *metrics.Store {
	metricsOnce.Do(func() {
		metricsStore = metrics.New(prometheus.NewRegistry(), "test_node", "gateway", "test")
	})
	return metricsStore
}

func Test_Client_Call_WireFormat(t *testing.T) {
	var captured RpcRequest
	var user, pass string
	var contentType string

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ = r.BasicAuth()
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode forwarded request: %v", err)
		}
		_, _ = w.Write([]byte(`{"result":{"blocks":840000},"error":null,"id":"1"}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "rpcuser", "rpcpass", &http.Client{}, testMetrics())

	result, err := c.Call(context.Background(), "getblock", []any{"00ff", 1})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	if string(result) != `{"blocks":840000}` {
		t.Errorf("Call() result = %s, want untouched upstream result", result)
	}
	if user != "rpcuser" || pass != "rpcpass" {
		t.Errorf("Call() basic auth = %s:%s, want rpcuser:rpcpass", user, pass)
	}
	if contentType != "application/json" {
		t.Errorf("Call() content type = %s, want application/json", contentType)
	}
	if captured.JsonRpc != "1.0" {
		t.Errorf("Call() jsonrpc = %s, want 1.0", captured.JsonRpc)
	}
	if captured.Method != "getblock" {
		t.Errorf("Call() method = %s, want getblock", captured.Method)
	}
	if len(captured.Params) != 2 || captured.Params[0] != "00ff" || captured.Params[1] != float64(1) {
		t.Errorf("Call() params = %v, want [00ff 1] in order", captured.Params)
	}
	if captured.Id == "" {
		t.Errorf("Call() id is empty")
	}
}

func Test_Client_Call_NilParamsBecomeEmptyArray(t *testing.T) {
	var rawBody map[string]json.RawMessage

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&rawBody)
		_, _ = w.Write([]byte(`{"result":123,"error":null,"id":"1"}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "u", "p", &http.Client{}, testMetrics())

	if _, err := c.Call(context.Background(), "getblockcount", nil); err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	if string(rawBody["params"]) != `[]` {
		t.Errorf("Call() params on the wire = %s, want []", rawBody["params"])
	}
}

func Test_Client_Call_Failures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantKind   gatewayerr.Kind
		wantStatus int
	}{
		{
			name: "rpc error passes upstream status through",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"result":null,"error":{"code":-8,"message":"Block height out of range"},"id":"1"}`))
			},
			wantKind:   gatewayerr.KindRemote,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "error object on 2xx still fails as remote",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"result":null,"error":{"code":-32601,"message":"Method not found"},"id":"1"}`))
			},
			wantKind:   gatewayerr.KindRemote,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "non-json body on error status keeps upstream status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`not found`))
			},
			wantKind:   gatewayerr.KindRemote,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "malformed body on 2xx is a protocol error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"result":`))
			},
			wantKind:   gatewayerr.KindProtocol,
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "neither result nor error is a protocol error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"result":null,"error":null,"id":"1"}`))
			},
			wantKind:   gatewayerr.KindProtocol,
			wantStatus: http.StatusBadGateway,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(tt.handler)
			defer upstream.Close()

			c := NewClient(upstream.URL, "u", "p", &http.Client{}, testMetrics())

			_, err := c.Call(context.Background(), "getblock", []any{"00"})
			if err == nil {
				t.Fatalf("Call() error = nil, want %s", tt.wantKind)
			}

			classified := gatewayerr.From(err)
			if classified.Kind != tt.wantKind {
				t.Errorf("Call() kind = %s, want %s", classified.Kind, tt.wantKind)
			}
			if classified.Status != tt.wantStatus {
				t.Errorf("Call() status = %d, want %d", classified.Status, tt.wantStatus)
			}
		})
	}
}

func Test_Client_Call_Unreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	c := NewClient(upstream.URL, "u", "p", &http.Client{}, testMetrics())

	_, err := c.Call(context.Background(), "getblockchaininfo", nil)
	if err == nil {
		t.Fatalf("Call() error = nil, want unavailable")
	}

	classified := gatewayerr.From(err)
	if classified.Kind != gatewayerr.KindUnavailable || classified.Status != http.StatusServiceUnavailable {
		t.Errorf("Call() = %s/%d, want unavailable/503", classified.Kind, classified.Status)
	}
}

func Test_Client_Call_Timeout(t *testing.T) {
	release := make(chan struct{})

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer upstream.Close()
	defer close(release)

	c := NewClient(upstream.URL, "u", "p", &http.Client{Timeout: 50 * time.Millisecond}, testMetrics())

	_, err := c.Call(context.Background(), "getblockchaininfo", nil)
	if err == nil {
		t.Fatalf("Call() error = nil, want timeout")
	}

	classified := gatewayerr.From(err)
	if classified.Kind != gatewayerr.KindTimeout || classified.Status != http.StatusGatewayTimeout {
		t.Errorf("Call() = %s/%d, want timeout/504", classified.Kind, classified.Status)
	}
}
