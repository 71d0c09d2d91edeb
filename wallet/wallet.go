package wallet

import (
	"context"
	"crypto/ecdsa"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/voyage-finance/llamapay-cli/errs"
	"github.com/voyage-finance/llamapay-cli/logging"
	"go.uber.org/zap"
	"math/big"
	"strings"
	"sync"
)

// Dial connects to the node at rpcURL.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errs.Wrapf(errs.KindConfiguration, err, "dial %s", rpcURL)
	}
	return client, nil
}

type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// Wallet signs transactions with a single private key.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chain   ChainIDReader

	once    sync.Once
	chainID *big.Int
	err     error
}

// New parses a hex private key, with or without 0x.
func New(hexKey string, chain ChainIDReader) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, err, "invalid KEY")
	}
	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chain:   chain,
	}, nil
}

func (w *Wallet) Address() common.Address {
	return w.address
}

// ChainID is read from the node once and reused.
func (w *Wallet) ChainID(ctx context.Context) (*big.Int, error) {
	w.once.Do(func() {
		w.chainID, w.err = w.chain.ChainID(ctx)
		if w.err != nil {
			logging.Logger.Error("Wallet.ChainID error", zap.Error(w.err))
			w.err = errs.Wrap(errs.KindQuery, w.err, "read chain id")
		}
	})
	return w.chainID, w.err
}

// TransactOpts returns fresh signing options; the node fills nonce and gas.
func (w *Wallet) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	chainID, err := w.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, chainID)
	if err != nil {
		return nil, errs.Wrap(errs.KindTransaction, err, "build transactor")
	}
	opts.Context = ctx
	return opts, nil
}
