// Package chaintest serves a fake JSON-RPC node for tests. It answers
// eth_call by packing canned outputs for whichever ABI method is called and
// mines every raw transaction it receives.
package chaintest

import (
	"encoding/json"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
)

type request struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type callArg struct {
	To    string        `json:"to"`
	Data  hexutil.Bytes `json:"data"`
	Input hexutil.Bytes `json:"input"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// Node is a fake node. Outputs maps a method name to its return values.
// Raw transactions are accepted as mined in the next block unless their
// method was marked with Revert.
type Node struct {
	*httptest.Server

	mu      sync.Mutex
	abis    []abi.ABI
	outputs map[string][]interface{}
	methods []string
	reverts map[string]bool
	sent    []string
	mined   map[common.Hash]bool
}

// NewNode loads the ABI files used to decode calls and starts the server.
func NewNode(abiPaths ...string) (*Node, error) {
	n := &Node{
		outputs: map[string][]interface{}{},
		reverts: map[string]bool{},
		mined:   map[common.Hash]bool{},
	}
	for _, path := range abiPaths {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		parsed, err := abi.JSON(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
		n.abis = append(n.abis, parsed)
	}
	n.Server = httptest.NewServer(http.HandlerFunc(n.serve))
	return n, nil
}

func (n *Node) Set(method string, outputs ...interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.outputs[method] = outputs
}

// Calls lists the contract methods called so far, in order.
func (n *Node) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.methods...)
}

// Revert makes every later transaction calling method fail on chain.
func (n *Node) Revert(method string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reverts[method] = true
}

// Sent lists the contract methods of the raw transactions received, in order.
func (n *Node) Sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

func (n *Node) serve(rw http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}
	resp := response{JSONRPC: "2.0", ID: req.ID}
	result, err := n.handle(req)
	if err != nil {
		resp.Error = &rpcError{Code: -32000, Message: err.Error()}
	} else {
		resp.Result = result
	}
	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(resp)
}

func (n *Node) handle(req request) (interface{}, error) {
	switch req.Method {
	case "eth_chainId":
		return "0xcb9d", nil
	case "eth_getCode":
		return "0x01", nil
	case "eth_gasPrice":
		return "0x3b9aca00", nil
	case "eth_estimateGas":
		return "0x186a0", nil
	case "eth_getTransactionCount":
		n.mu.Lock()
		defer n.mu.Unlock()
		return hexutil.Uint64(len(n.sent)), nil
	case "eth_getBlockByNumber":
		return header(), nil
	case "eth_sendRawTransaction":
		return n.send(req.Params)
	case "eth_getTransactionReceipt":
		return n.receipt(req.Params)
	case "eth_call":
		return n.call(req.Params)
	}
	return nil, errors.Errorf("method %s not supported", req.Method)
}

func (n *Node) call(params []json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, errors.New("missing call argument")
	}
	var arg callArg
	if err := json.Unmarshal(params[0], &arg); err != nil {
		return nil, errors.WithStack(err)
	}
	data := arg.Data
	if len(data) == 0 {
		data = arg.Input
	}
	method, err := n.method(data)
	if err != nil {
		return nil, err
	}
	n.mu.Lock()
	n.methods = append(n.methods, method.Name)
	out, ok := n.outputs[method.Name]
	n.mu.Unlock()
	if !ok {
		return nil, errors.New("execution reverted")
	}
	packed, err := method.Outputs.Pack(out...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s outputs", method.Name)
	}
	return hexutil.Encode(packed), nil
}

func (n *Node) send(params []json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, errors.New("missing raw transaction")
	}
	var raw hexutil.Bytes
	if err := json.Unmarshal(params[0], &raw); err != nil {
		return nil, errors.WithStack(err)
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, errors.Wrap(err, "decode raw transaction")
	}
	method, err := n.method(tx.Data())
	if err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, method.Name)
	n.mined[tx.Hash()] = !n.reverts[method.Name]
	return tx.Hash(), nil
}

func (n *Node) receipt(params []json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, errors.New("missing transaction hash")
	}
	var hash common.Hash
	if err := json.Unmarshal(params[0], &hash); err != nil {
		return nil, errors.WithStack(err)
	}
	n.mu.Lock()
	ok, known := n.mined[hash]
	n.mu.Unlock()
	if !known {
		return json.RawMessage("null"), nil
	}
	status := hexutil.Uint64(types.ReceiptStatusSuccessful)
	if !ok {
		status = hexutil.Uint64(types.ReceiptStatusFailed)
	}
	return map[string]interface{}{
		"type":              "0x0",
		"status":            status,
		"cumulativeGasUsed": "0x5208",
		"gasUsed":           "0x5208",
		"logsBloom":         types.Bloom{},
		"logs":              []interface{}{},
		"transactionHash":   hash,
		"transactionIndex":  "0x0",
		"blockHash":         common.Hash{0x1},
		"blockNumber":       "0x2",
	}, nil
}

func (n *Node) method(data []byte) (*abi.Method, error) {
	if len(data) < 4 {
		return nil, errors.New("short calldata")
	}
	for _, parsed := range n.abis {
		if method, err := parsed.MethodById(data[:4]); err == nil {
			return method, nil
		}
	}
	return nil, errors.Errorf("unknown selector %x", data[:4])
}

// header is a pre-London block, so signers fall back to legacy gas pricing.
func header() map[string]interface{} {
	return map[string]interface{}{
		"parentHash":       common.Hash{},
		"sha3Uncles":       types.EmptyUncleHash,
		"miner":            common.Address{},
		"stateRoot":        common.Hash{},
		"transactionsRoot": types.EmptyRootHash,
		"receiptsRoot":     types.EmptyRootHash,
		"logsBloom":        types.Bloom{},
		"difficulty":       "0x1",
		"number":           "0x1",
		"gasLimit":         "0x1c9c380",
		"gasUsed":          "0x0",
		"timestamp":        "0x63a0a0a0",
		"extraData":        "0x",
		"mixHash":          common.Hash{},
		"nonce":            types.BlockNonce{},
	}
}
