package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chainproxy/bitcoind-gateway/internal/connectors/metrics"
	"github.com/chainproxy/bitcoind-gateway/internal/pkg/gatewayerr"
)

// Client forwards one JSON-RPC call per inbound request to a single
// Bitcoin Core node. It never retries on the request path; a failed call
// surfaces immediately as a classified error.
type Client struct {
	rpcURL     string
	username   string
	password   string
	httpClient *http.Client
	metrics    *metrics.Store
}

const ProbeAttempts = 6
const ProbeDelay = 500 * time.Millisecond
const ProbeMaxDelay = 5 * time.Second

func NewClient(rpcURL, username, password string, httpClient *http.Client, metricsStore *metrics.Store) *Client {
	return &Client{
		rpcURL:     rpcURL,
		username:   username,
		password:   password,
		httpClient: httpClient,
		metrics:    metricsStore,
	}
}

// Call executes a single attempt of the named method with positional params
// and returns the raw result. Every failure is a *gatewayerr.Error.
func (c *Client) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	rpcRequest := RpcRequest{
		JsonRpc: "1.0",
		Method:  method,
		Params:  params,
		Id:      uuid.New().String(),
	}

	payload, marshalErr := json.Marshal(rpcRequest)
	if marshalErr != nil {
		return nil, gatewayerr.Internal(fmt.Errorf("could not marshal rpc request: %w", marshalErr))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, gatewayerr.Internal(fmt.Errorf("could not create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, metrics.StatusFail, start)
		return nil, gatewayerr.Classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, metrics.StatusFail, start)
		return nil, gatewayerr.Classify(err)
	}

	var p RpcResponse
	if unmarshalErr := json.Unmarshal(body, &p); unmarshalErr != nil {
		c.observe(method, metrics.StatusFail, start)
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return nil, gatewayerr.Remote(resp.StatusCode, fmt.Sprintf("upstream answered %s", resp.Status))
		}
		return nil, gatewayerr.Protocol(fmt.Sprintf("could not unmarshal upstream response: %v", unmarshalErr))
	}

	if p.Error != nil {
		c.observe(method, metrics.StatusFail, start)
		status := resp.StatusCode
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			// Core should never pair an error object with a 2xx.
			status = http.StatusInternalServerError
		}
		return nil, gatewayerr.Remote(status, fmt.Sprintf("RPC code(%d) error: %s", p.Error.Code, p.Error.Message))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.observe(method, metrics.StatusFail, start)
		return nil, gatewayerr.Remote(resp.StatusCode, fmt.Sprintf("upstream answered %s", resp.Status))
	}

	if p.Result == nil {
		c.observe(method, metrics.StatusFail, start)
		return nil, gatewayerr.Protocol(fmt.Sprintf("%s response carries neither result nor error", method))
	}

	c.observe(method, metrics.StatusOk, start)
	return p.Result, nil
}

// Probe waits for the node to answer getblockchaininfo before the gateway
// accepts traffic. Retrying here is an operator concern and stays out of the
// per-request path.
func (c *Client) Probe(ctx context.Context) error {
	return retry.Do(
		func() error {
			_, err := c.Call(ctx, "getblockchaininfo", nil)
			return err
		},
		retry.Attempts(ProbeAttempts),
		retry.Delay(ProbeDelay),
		retry.MaxDelay(ProbeMaxDelay),
		retry.DelayType(retry.CombineDelay(
			retry.BackOffDelay,
			retry.RandomDelay,
		)),
		retry.Context(ctx),
	)
}

func (c *Client) observe(method, status string, start time.Time) {
	c.metrics.RpcRequests.With(prometheus.Labels{metrics.Method: method, metrics.Status: status}).Inc()
	c.metrics.SummaryHandlers.With(prometheus.Labels{metrics.Method: method}).Observe(time.Since(start).Seconds())
}
