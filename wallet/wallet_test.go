package wallet

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyage-finance/llamapay-cli/errs"
	"math/big"
	"testing"
)

// well-known development key
const devKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

type fakeChain struct {
	id    *big.Int
	err   error
	calls int
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) {
	f.calls++
	return f.id, f.err
}

func TestNew(t *testing.T) {
	for _, key := range []string{devKey, devKey[2:], " " + devKey + "\n"} {
		w, err := New(key, &fakeChain{})
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), w.Address())
	}

	for _, key := range []string{"", "0x1234", "not a key"} {
		_, err := New(key, &fakeChain{})
		assert.Equal(t, errs.KindConfiguration, errs.KindOf(err), key)
	}
}

func TestTransactOpts(t *testing.T) {
	chain := &fakeChain{id: big.NewInt(52125)}
	w, err := New(devKey, chain)
	require.NoError(t, err)

	ctx := context.Background()
	a, err := w.TransactOpts(ctx)
	require.NoError(t, err)
	b, err := w.TransactOpts(ctx)
	require.NoError(t, err)

	assert.Equal(t, w.Address(), a.From)
	assert.NotNil(t, a.Signer)
	assert.NotSame(t, a, b, "each transaction gets its own options")
	assert.Equal(t, 1, chain.calls, "chain id is read once")
}

func TestTransactOptsChainFailure(t *testing.T) {
	w, err := New(devKey, &fakeChain{err: errors.New("connection refused")})
	require.NoError(t, err)

	_, err = w.TransactOpts(context.Background())
	assert.Equal(t, errs.KindQuery, errs.KindOf(err))
}
