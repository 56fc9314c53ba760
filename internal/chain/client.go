// Package chain verifies BNB deposits against a BSC node over JSON-RPC.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// ErrTxNotFound is returned when the node has not seen the transaction.
var ErrTxNotFound = errors.New("transaction not found")

// Client is a minimal JSON-RPC 2.0 client for the eth_* namespace.
type Client struct {
	endpoint string
	client   *http.Client
	nextID   atomic.Int64
}

// NewClient creates a client for the given RPC endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// RPCError is a JSON-RPC error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

var errNullResult = errors.New("rpc: null result")

// call performs one JSON-RPC round trip and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc: unexpected status %d", resp.StatusCode)
	}

	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if len(envelope.Result) == 0 || bytes.Equal(envelope.Result, []byte("null")) {
		return errNullResult
	}

	return json.Unmarshal(envelope.Result, out)
}

// Quantity is a hex-encoded integer ("0x1b4") as the eth_ namespace
// encodes numbers.
type Quantity big.Int

// UnmarshalJSON decodes a 0x-prefixed hex string.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return fmt.Errorf("rpc: quantity %q missing 0x prefix", s)
	}
	digits := s[2:]
	if digits == "" {
		digits = "0"
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return fmt.Errorf("rpc: bad quantity %q", s)
	}
	(*big.Int)(q).Set(v)
	return nil
}

// BigInt returns the quantity as a big integer.
func (q *Quantity) BigInt() *big.Int {
	if q == nil {
		return new(big.Int)
	}
	return (*big.Int)(q)
}

// Int64 returns the quantity as an int64.
func (q *Quantity) Int64() int64 {
	return q.BigInt().Int64()
}

// Transaction is the subset of eth_getTransactionByHash fields the
// deposit watcher verifies.
type Transaction struct {
	Hash        string    `json:"hash"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Value       *Quantity `json:"value"`
	BlockNumber *Quantity `json:"blockNumber"` // nil while pending
}

// Receipt is the subset of eth_getTransactionReceipt fields the
// deposit watcher verifies.
type Receipt struct {
	Status      *Quantity `json:"status"`
	BlockNumber *Quantity `json:"blockNumber"`
}

// Succeeded reports whether the transaction executed without reverting.
func (r *Receipt) Succeeded() bool {
	return r.Status != nil && r.Status.Int64() == 1
}

// ChainID returns the chain ID the node reports.
func (c *Client) ChainID(ctx context.Context) (int64, error) {
	var q Quantity
	if err := c.call(ctx, "eth_chainId", []any{}, &q); err != nil {
		return 0, err
	}
	return q.Int64(), nil
}

// BlockNumber returns the current head block number.
func (c *Client) BlockNumber(ctx context.Context) (int64, error) {
	var q Quantity
	if err := c.call(ctx, "eth_blockNumber", []any{}, &q); err != nil {
		return 0, err
	}
	return q.Int64(), nil
}

// TransactionByHash looks up a transaction. ErrTxNotFound means the
// node has not seen the hash yet.
func (c *Client) TransactionByHash(ctx context.Context, hash string) (*Transaction, error) {
	var tx Transaction
	err := c.call(ctx, "eth_getTransactionByHash", []any{hash}, &tx)
	if errors.Is(err, errNullResult) {
		return nil, ErrTxNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// TransactionReceipt looks up a receipt. ErrTxNotFound until the
// transaction is mined.
func (c *Client) TransactionReceipt(ctx context.Context, hash string) (*Receipt, error) {
	var r Receipt
	err := c.call(ctx, "eth_getTransactionReceipt", []any{hash}, &r)
	if errors.Is(err, errNullResult) {
		return nil, ErrTxNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
