package transactor

import (
	"context"
)

// Transactor runs a function within one database transaction. It is the
// boundary which keeps an entity mutation and its audit log append atomic.
type Transactor interface {
	WithinTransaction(context.Context, func(context.Context) error) error
}
