package transaction

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Method is the closed set of state-changing contract calls this tool sends.
type Method string

const (
	MethodCreateLlamaPayContract Method = "createLlamaPayContract"
	MethodCreateStream           Method = "createStream"
	MethodCancelStream           Method = "cancelStream"
	MethodWithdraw               Method = "withdraw"
	MethodWithdrawPayerAll       Method = "withdrawPayerAll"
	MethodDeposit                Method = "deposit"
	MethodApprove                Method = "approve"
)

// Transactor is satisfied by *bind.BoundContract.
type Transactor interface {
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

// Call is a contract method with its ordered arguments. Calls are built by
// the typed builders in contracts/handlers, never by hand.
type Call struct {
	Contract   common.Address
	Method     Method
	Args       []interface{}
	Transactor Transactor
}

type Status int

const (
	// StatusRejected: the transaction never reached the node.
	StatusRejected Status = iota
	// StatusUnconfirmed: submitted, but not mined successfully in time.
	StatusUnconfirmed
	StatusConfirmed
)

func (s Status) String() string {
	switch s {
	case StatusRejected:
		return "rejected-before-submission"
	case StatusUnconfirmed:
		return "submitted+failed-to-confirm"
	case StatusConfirmed:
		return "submitted+confirmed"
	}
	return "unknown"
}

// Outcome is the result of SubmitAndConfirm. Err is nil only when Status is
// StatusConfirmed.
type Outcome struct {
	Method  Method
	Status  Status
	TxHash  common.Hash
	Receipt *types.Receipt
	Err     error
}

func (o *Outcome) Confirmed() bool {
	return o != nil && o.Status == StatusConfirmed
}
