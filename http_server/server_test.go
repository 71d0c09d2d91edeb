package http_server

import (
	"bytes"
	"encoding/json"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyage-finance/llamapay-cli/config"
	"github.com/voyage-finance/llamapay-cli/contracts/handlers"
	"github.com/voyage-finance/llamapay-cli/http_server/controllers"
	"github.com/voyage-finance/llamapay-cli/internal/chaintest"
	"github.com/voyage-finance/llamapay-cli/models"
	"github.com/voyage-finance/llamapay-cli/service"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

const (
	abiDir   = "../contracts/abis"
	streamID = "0xedd8aad0f485e174eac2afb250a17bec89a6160d60731f5365b50a74eafcb058"
)

var (
	tokenAddr = common.HexToAddress("0xc2d087e6db960f561da48e406eda2f8e09fe92e9")
	llamaAddr = common.HexToAddress("0x00000000000000000000000000000000000011aa")
)

const streamJSON = `{"streamId": "` + streamID + `", "active": true, "amountPerSec": "1000", "createdTimestamp": "1670000000",
  "payer": {"id": "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"},
  "payee": {"id": "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"},
  "token": {"address": "0xc2d087e6db960f561da48e406eda2f8e09fe92e9", "symbol": "WUSD", "decimals": 6},
  "contract": {"address": "0x00000000000000000000000000000000000011aa"}}`

type fixture struct {
	handler http.Handler
	node    *chaintest.Node
}

// newFixture wires a Service to a fake subgraph answering with graphData
// and a fake node.
func newFixture(t *testing.T, graphData string) *fixture {
	t.Helper()
	graph := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write([]byte(`{"data": ` + graphData + `}`))
	}))
	t.Cleanup(graph.Close)

	node, err := chaintest.NewNode(
		filepath.Join(abiDir, handlers.LlamaPayABIFile),
		filepath.Join(abiDir, handlers.LlamaPayFactoryABIFile),
		filepath.Join(abiDir, handlers.ERC20ABIFile),
	)
	require.NoError(t, err)
	t.Cleanup(node.Close)
	eth, err := ethclient.Dial(node.URL)
	require.NoError(t, err)
	t.Cleanup(eth.Close)

	cfg := &config.Config{
		ABIDir:                  abiDir,
		ClientURL:               graph.URL,
		NetworkID:               "52125",
		LlamaPayFactoryContract: config.DefaultLlamaPayFactoryContract,
	}
	contractHandlers, err := handlers.NewContractHandlers(cfg)
	require.NoError(t, err)
	svc := &service.Service{Config: cfg, Client: resty.New(), Backend: eth, Handlers: contractHandlers, Out: &bytes.Buffer{}}
	return &fixture{handler: NewServer(svc).Handler(), node: node}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestGetTokens(t *testing.T) {
	f := newFixture(t, `{"tokens": [{"address": "0xc2d087e6db960f561da48e406eda2f8e09fe92e9", "symbol": "WUSD", "decimals": 18}]}`)

	rec := f.do(t, http.MethodGet, "/tokens", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var tokens []models.Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	require.Len(t, tokens, 1)
	assert.Equal(t, "WUSD", tokens[0].Symbol)
}

func TestGetStream(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t, `{"streams": [`+streamJSON+`]}`)
		rec := f.do(t, http.MethodGet, "/streams/"+streamID, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var streams []models.Stream
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &streams))
		require.Len(t, streams, 1)
		assert.Equal(t, "1000", streams[0].AmountPerSec)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t, `{"streams": []}`)
		rec := f.do(t, http.MethodGet, "/streams/"+streamID, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t, `{"streams": []}`)
		rec := f.do(t, http.MethodGet, "/streams/0x1234", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetUserStreams(t *testing.T) {
	f := newFixture(t, `{"user": {"id": "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", "streams": [`+streamJSON+`], "historicalEvents": []}}`)

	rec := f.do(t, http.MethodGet, "/users/0x70997970C51812dc3A010C7d01b50e0d17dc79C8/streams", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Len(t, user.Streams, 1)

	rec = f.do(t, http.MethodGet, "/users/alice/streams", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWithdrawable(t *testing.T) {
	f := newFixture(t, `{"streams": [`+streamJSON+`]}`)
	f.node.Set("getLlamaPayContractByToken", llamaAddr, true)
	f.node.Set("token", tokenAddr)
	f.node.Set("symbol", "WUSD")
	f.node.Set("decimals", uint8(6))
	f.node.Set("withdrawable", big.NewInt(1234567), big.NewInt(1670000100), big.NewInt(2000000))

	rec := f.do(t, http.MethodGet, "/streams/"+streamID+"/withdrawable", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var info service.WithdrawableInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, service.WithdrawableInfo{
		Payee:        "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		Symbol:       "WUSD",
		Withdrawable: "1.23",
		Owed:         "2.00",
	}, info)
}

func TestGetWithdrawableNodeFailure(t *testing.T) {
	f := newFixture(t, `{"streams": [`+streamJSON+`]}`)

	rec := f.do(t, http.MethodGet, "/streams/"+streamID+"/withdrawable", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var resp controllers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "QueryError", resp.Kind)
}

func TestEncodeStream(t *testing.T) {
	f := newFixture(t, `{}`)
	f.node.Set("decimals", uint8(6))
	f.node.Set("getLlamaPayContractByToken", llamaAddr, true)

	body := `{"token": "0xc2d087e6db960f561da48e406eda2f8e09fe92e9", "recipient": "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		"amount": "100", "duration": "1 month"}`
	rec := f.do(t, http.MethodPost, "/encode/stream", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var payloads []models.MultiSignaturePayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payloads))
	require.Len(t, payloads, 3)
	assert.Equal(t, tokenAddr.Hex(), payloads[0].To)
	assert.Equal(t, "0x095ea7b3", payloads[0].Data[:10])
	assert.Equal(t, llamaAddr.Hex(), payloads[1].To)
	assert.Equal(t, llamaAddr.Hex(), payloads[2].To)
}

func TestEncodeStreamValidation(t *testing.T) {
	f := newFixture(t, `{}`)

	rec := f.do(t, http.MethodPost, "/encode/stream", `{"token": "0x1234", "amount": "1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validationError")

	rec = f.do(t, http.MethodPost, "/encode/stream", `{"token": "0xc2d087e6db960f561da48e406eda2f8e09fe92e9",
		"recipient": "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", "amount": "1", "duration": "soon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.node.Calls(), "nothing is read from the chain for an invalid duration")
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, `{}`)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/nope", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(t, http.MethodDelete, "/tokens", "").Code)
}
