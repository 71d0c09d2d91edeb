package service

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/voyage-finance/llamapay-cli/models"
	"golang.org/x/sync/errgroup"
)

// maxSymbolLookups bounds concurrent symbol() calls against the node.
const maxSymbolLookups = 8

// ResolveSymbols reads symbol() for each token concurrently. The result is
// index-aligned with tokens; duplicate addresses are looked up once.
func ResolveSymbols(ctx context.Context, tokenAt TokenAt, tokens []common.Address) ([]string, error) {
	unique := make(map[common.Address]string, len(tokens))
	for _, t := range tokens {
		unique[t] = ""
	}
	addresses := make([]common.Address, 0, len(unique))
	for t := range unique {
		addresses = append(addresses, t)
	}

	symbols := make([]string, len(addresses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSymbolLookups)
	for i, address := range addresses {
		i, address := i, address
		g.Go(func() error {
			symbol, err := tokenAt(address).Symbol(gctx)
			if err != nil {
				return err
			}
			symbols[i] = symbol
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, address := range addresses {
		unique[address] = symbols[i]
	}

	result := make([]string, len(tokens))
	for i, t := range tokens {
		result[i] = unique[t]
	}
	return result, nil
}

// StreamTokenSymbols resolves the token symbol of every stream.
func StreamTokenSymbols(ctx context.Context, tokenAt TokenAt, streams []models.Stream) ([]string, error) {
	tokens := make([]common.Address, len(streams))
	for i := range streams {
		tokens[i] = common.HexToAddress(streams[i].Token.Address)
	}
	return ResolveSymbols(ctx, tokenAt, tokens)
}
