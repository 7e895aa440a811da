package repositories

import "context"

// TxFn is a function executed within a transaction. Repositories called
// with the given context automatically participate in the transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs functions inside a database transaction.
// Used where a multi-step mutation must commit or roll back as a unit
// (order draft creation, order finalize).
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
