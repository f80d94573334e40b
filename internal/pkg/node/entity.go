package node

import "encoding/json"

// Bitcoin Core speaks JSON-RPC 1.0; params are positional and their order is
// part of each method's contract.
type RpcRequest struct {
	JsonRpc string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	Id      string `json:"id"`
}

// Result stays opaque: the gateway reshapes the envelope, never the payload.
type RpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RpcError       `json:"error"`
	Id     string          `json:"id"`
}

type RpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
