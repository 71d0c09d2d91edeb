package service

import (
	"context"
	"encoding/json"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-resty/resty/v2"
	"github.com/voyage-finance/llamapay-cli/errs"
	"github.com/voyage-finance/llamapay-cli/logging"
	"github.com/voyage-finance/llamapay-cli/models"
	"go.uber.org/zap"
	"strings"
)

const streamFields = `
    id
    streamId
    active
    amountPerSec
    createdTimestamp
    payer { id }
    payee { id }
    token { address symbol name decimals }
    contract { address }`

const streamByIDQuery = `query StreamById($network: String!, $id: Bytes!) {
  streams(network: $network, where: { streamId: $id }) {` + streamFields + `
    historicalEvents(orderBy: createdTimestamp, orderDirection: asc) {
      eventType
      txHash
      createdTimestamp
    }
  }
}`

const streamAndHistoryQuery = `query StreamAndHistory($network: String!, $id: ID!) {
  user(network: $network, id: $id) {
    id
    streams(orderBy: createdTimestamp, orderDirection: desc) {` + streamFields + `
    }
    historicalEvents(orderBy: createdTimestamp, orderDirection: desc) {
      eventType
      txHash
      amount
      createdTimestamp
      token { address symbol decimals }
    }
  }
}`

const allTokensQuery = `query GetAllTokens($network: String!) {
  tokens(network: $network) {
    address
    symbol
    name
    decimals
    contract { id }
  }
}`

// GraphService queries the LlamaPay subgraph.
type GraphService struct {
	client  *resty.Client
	url     string
	network string
}

func NewGraphService(client *resty.Client, url, network string) *GraphService {
	return &GraphService{client: client, url: url, network: network}
}

// GetStreamInfoByStreamID may return several streams: the same id can exist
// on more than one LlamaPay contract.
func (g *GraphService) GetStreamInfoByStreamID(ctx context.Context, streamID string) ([]models.Stream, error) {
	var data models.StreamsData
	if err := g.query(ctx, streamByIDQuery, map[string]interface{}{"id": strings.ToLower(streamID)}, &data); err != nil {
		return nil, err
	}
	return data.Streams, nil
}

// GetStreamAndHistoryByUserAddress returns an empty User when the subgraph
// has never seen the address.
func (g *GraphService) GetStreamAndHistoryByUserAddress(ctx context.Context, userAddress string) (*models.User, error) {
	if !common.IsHexAddress(userAddress) {
		return nil, errs.Newf(errs.KindValidation, "User address %s is invalid", userAddress)
	}
	id := strings.ToLower(userAddress)
	var data models.UserData
	if err := g.query(ctx, streamAndHistoryQuery, map[string]interface{}{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return &models.User{ID: id}, nil
	}
	return data.User, nil
}

func (g *GraphService) GetAllTokens(ctx context.Context) ([]models.Token, error) {
	var data models.TokensData
	if err := g.query(ctx, allTokensQuery, nil, &data); err != nil {
		return nil, err
	}
	return data.Tokens, nil
}

func (g *GraphService) query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	if variables == nil {
		variables = map[string]interface{}{}
	}
	variables["network"] = g.network

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.GraphRequest{Query: query, Variables: variables}).
		Post(g.url)
	if err != nil {
		logging.Logger.Error("GraphService.query error", zap.String("url", g.url), zap.Error(err))
		return errs.Wrap(errs.KindQuery, err, "subgraph request failed")
	}
	if resp.IsError() {
		return errs.Newf(errs.KindQuery, "subgraph returned %s", resp.Status())
	}

	envelope := models.GraphResponse[json.RawMessage]{}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return errs.Wrap(errs.KindQuery, err, "decode subgraph response")
	}
	if len(envelope.Errors) > 0 {
		return errs.Newf(errs.KindQuery, "subgraph error: %s", envelope.ErrorMessage())
	}
	if len(envelope.Data) == 0 {
		return errs.New(errs.KindQuery, "subgraph response has no data")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return errs.Wrap(errs.KindQuery, err, "decode subgraph data")
	}
	return nil
}
