package service

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/voyage-finance/llamapay-cli/contracts/handlers"
	"github.com/voyage-finance/llamapay-cli/transaction"
	"math/big"
	"sync"
)

var (
	payer     = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	payee     = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	llamaAddr = common.HexToAddress("0x00000000000000000000000000000000000011aa")
	tokenAddr = common.HexToAddress("0x00000000000000000000000000000000000022bb")
)

type fakeLlamaPay struct {
	address      common.Address
	token        common.Address
	balance      *big.Int
	streamStart  *big.Int
	withdrawable *handlers.Withdrawable
	err          error
}

func (f *fakeLlamaPay) Address() common.Address { return f.address }

func (f *fakeLlamaPay) Token(context.Context) (common.Address, error) { return f.token, f.err }

func (f *fakeLlamaPay) GetPayerBalance(context.Context, common.Address) (*big.Int, error) {
	return f.balance, f.err
}

func (f *fakeLlamaPay) StreamToStart(context.Context, common.Hash) (*big.Int, error) {
	return f.streamStart, f.err
}

func (f *fakeLlamaPay) Withdrawable(context.Context, common.Address, common.Address, *big.Int) (*handlers.Withdrawable, error) {
	return f.withdrawable, f.err
}

func (f *fakeLlamaPay) CreateStream(payee common.Address, amountPerSec *big.Int) transaction.Call {
	return f.call(transaction.MethodCreateStream, payee, amountPerSec)
}

func (f *fakeLlamaPay) CancelStream(payee common.Address, amountPerSec *big.Int) transaction.Call {
	return f.call(transaction.MethodCancelStream, payee, amountPerSec)
}

func (f *fakeLlamaPay) Withdraw(payer, payee common.Address, amountPerSec *big.Int) transaction.Call {
	return f.call(transaction.MethodWithdraw, payer, payee, amountPerSec)
}

func (f *fakeLlamaPay) WithdrawPayerAll() transaction.Call {
	return f.call(transaction.MethodWithdrawPayerAll)
}

func (f *fakeLlamaPay) Deposit(amount *big.Int) transaction.Call {
	return f.call(transaction.MethodDeposit, amount)
}

func (f *fakeLlamaPay) call(method transaction.Method, args ...interface{}) transaction.Call {
	return transaction.Call{Contract: f.address, Method: method, Args: args}
}

type fakeToken struct {
	address   common.Address
	symbol    string
	decimals  uint8
	balance   *big.Int
	allowance *big.Int
	err       error

	mu      sync.Mutex
	lookups int
}

func (f *fakeToken) Address() common.Address { return f.address }

func (f *fakeToken) Symbol(context.Context) (string, error) {
	f.mu.Lock()
	f.lookups++
	f.mu.Unlock()
	return f.symbol, f.err
}

func (f *fakeToken) Decimals(context.Context) (uint8, error) { return f.decimals, f.err }

func (f *fakeToken) BalanceOf(context.Context, common.Address) (*big.Int, error) {
	return f.balance, f.err
}

func (f *fakeToken) Allowance(context.Context, common.Address, common.Address) (*big.Int, error) {
	return f.allowance, f.err
}

func (f *fakeToken) Approve(spender common.Address, amount *big.Int) transaction.Call {
	return transaction.Call{Contract: f.address, Method: transaction.MethodApprove, Args: []interface{}{spender, amount}}
}

type fakeFactory struct {
	details *handlers.LlamaPayDetails
	err     error
}

func (f *fakeFactory) Address() common.Address { return common.Address{} }

func (f *fakeFactory) GetLlamaPayContractByToken(context.Context, common.Address) (*handlers.LlamaPayDetails, error) {
	return f.details, f.err
}

func (f *fakeFactory) CreateLlamaPayContract(token common.Address) transaction.Call {
	return transaction.Call{Method: transaction.MethodCreateLlamaPayContract, Args: []interface{}{token}}
}

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) SubmitAndConfirm(ctx context.Context, call transaction.Call) *transaction.Outcome {
	args := m.Called(ctx, call)
	return args.Get(0).(*transaction.Outcome)
}

func (m *mockSubmitter) methods() []transaction.Method {
	var methods []transaction.Method
	for _, c := range m.Calls {
		methods = append(methods, c.Arguments.Get(1).(transaction.Call).Method)
	}
	return methods
}

func onMethod(method transaction.Method) interface{} {
	return mock.MatchedBy(func(c transaction.Call) bool { return c.Method == method })
}

func confirmed(method transaction.Method) *transaction.Outcome {
	return &transaction.Outcome{Method: method, Status: transaction.StatusConfirmed, TxHash: common.HexToHash("0x01")}
}

func tokenAtFake(token *fakeToken) TokenAt {
	return func(common.Address) TokenContract { return token }
}
