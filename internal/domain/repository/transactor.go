package repository

import "context"

// Transactor runs fn inside a single database transaction. Repositories called with
// the ctx handed to fn join that transaction; an error from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
