package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups the repositories bound to one transaction.
type Repositories struct {
	Users  UserRepository
	Goals  GoalRepository
	Groups GroupRepository
}

// TxManager runs a unit of work spanning several repositories.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager over db.
func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

// WithTransaction executes fn within a database transaction. Any error
// returned by fn rolls back every write made through repos.
func (m *txManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, Repositories{
			Users:  &userRepository{db: tx},
			Goals:  &goalRepository{db: tx},
			Groups: &groupRepository{db: tx},
		})
	})
}
