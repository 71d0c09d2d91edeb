package handlers

import (
	"context"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/voyage-finance/llamapay-cli/errs"
	"github.com/voyage-finance/llamapay-cli/logging"
	"github.com/voyage-finance/llamapay-cli/transaction"
	"go.uber.org/zap"
	"os"
)

type BaseHandler struct {
	ABI abi.ABI
}

// NewBaseHandler parses the ABI JSON at abiPath. Any failure is a
// configuration error: the tool cannot run without its ABIs.
func NewBaseHandler(abiPath string) (*BaseHandler, error) {
	fileABI, err := os.Open(abiPath)
	if err != nil {
		return nil, errs.Wrapf(errs.KindConfiguration, err, "open abi %s", abiPath)
	}
	defer fileABI.Close()
	parsedABI, err := abi.JSON(fileABI)
	if err != nil {
		return nil, errs.Wrapf(errs.KindConfiguration, err, "parse abi %s", abiPath)
	}
	return &BaseHandler{ABI: parsedABI}, nil
}

// EncodeFunc packs calldata for functionName as a 0x-prefixed hex string.
func (baseHandler *BaseHandler) EncodeFunc(functionName string, args ...interface{}) (string, error) {
	encoded, err := baseHandler.ABI.Pack(functionName, args...)
	if err != nil {
		logging.Logger.Error("BaseHandler.EncodeFunc error", zap.String("method", functionName), zap.Error(err))
		return "", errors.Wrapf(err, "pack %s", functionName)
	}
	return hexutil.Encode(encoded), nil
}

// boundContract pairs an address with the handler's ABI.
type boundContract struct {
	address  common.Address
	contract *bind.BoundContract
}

func (baseHandler *BaseHandler) bind(address common.Address, backend bind.ContractBackend) boundContract {
	return boundContract{
		address:  address,
		contract: bind.NewBoundContract(address, baseHandler.ABI, backend, backend, backend),
	}
}

func (b boundContract) Address() common.Address {
	return b.address
}

// call runs a constant method and returns its unpacked outputs.
func (b boundContract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, errs.Wrapf(errs.KindQuery, err, "call %s on %s", method, b.address.Hex())
	}
	return out, nil
}

func (b boundContract) newCall(method transaction.Method, args ...interface{}) transaction.Call {
	return transaction.Call{
		Contract:   b.address,
		Method:     method,
		Args:       args,
		Transactor: b.contract,
	}
}

func outputAt[T any](out []interface{}, i int, method string) (T, error) {
	var zero T
	if len(out) <= i {
		return zero, errs.Newf(errs.KindQuery, "%s returned %d values, want at least %d", method, len(out), i+1)
	}
	v, ok := out[i].(T)
	if !ok {
		return zero, errs.Newf(errs.KindQuery, "%s output %d has type %T", method, i, out[i])
	}
	return v, nil
}
