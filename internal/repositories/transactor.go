package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Tx is the set of repositories bound to one open transaction.
type Tx struct {
	Carts  CartRepository
	Orders OrderRepository
}

// Transactor runs fn inside a single database transaction. The transaction
// commits when fn returns nil and rolls back on an error or panic.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// GORMTransactor is a GORM implementation of Transactor.
type GORMTransactor struct {
	db *gorm.DB
}

func NewGORMTransactor(db *gorm.DB) *GORMTransactor {
	return &GORMTransactor{db: db}
}

func (t *GORMTransactor) WithinTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return t.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(Tx{
			Carts:  NewGORMCartRepository(db),
			Orders: NewGORMOrderRepository(db),
		})
	})
}
