package blockchain

// One schema per endpoint. Defaults are applied before validation; every
// field documents its default next to where it is set.

type blockParams struct {
	Hash      string `validate:"required,hash64"`
	Verbosity int    `validate:"gte=0,lte=2"` // default 1
}

type blockHashParams struct {
	Height int64 `validate:"gte=0"`
}

type blockHeaderParams struct {
	Hash    string `validate:"required,hash64"`
	Verbose bool // default true
}

type chainTxStatsParams struct {
	NBlocks   int    `validate:"gte=0"` // 0 means absent, node picks its default window
	BlockHash string `validate:"omitempty,hash64"`
}

type mempoolTxParams struct {
	TxID    string `validate:"required,hash64"`
	Verbose bool // default true
}

type mempoolEntryParams struct {
	TxID string `validate:"required,hash64"`
}

type txOutParams struct {
	TxID           string `validate:"required,hash64"`
	N              int    `validate:"gte=0"` // default 0
	IncludeMempool bool   // default true
}

type txOutProofBody struct {
	TxIDs     []string `json:"txids" validate:"required,min=1,dive,hash64"`
	BlockHash string   `json:"blockhash" validate:"omitempty,hash64"`
}

type verifyTxOutProofBody struct {
	Proof string `json:"proof" validate:"required,hexstring"`
}

type scanTxOutSetBody struct {
	Action      string   `json:"action" validate:"required,oneof=start abort status"`
	ScanObjects []string `json:"scanobjects" validate:"required_if=Action start,dive,required"`
}
