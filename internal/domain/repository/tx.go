package repository

import "context"

// TxManager runs fn as one unit of work. Repositories called with the ctx
// handed to fn join the transaction; any error returned by fn rolls it back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
