package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/Ivanildsdev/myrecipebook/internal/domain/user"
	"github.com/Ivanildsdev/myrecipebook/internal/usecase/user"
)

// UnitOfWorkFactory hands out per-invocation units of work over one shared
// GORM connection pool.
type UnitOfWorkFactory struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUnitOfWorkFactory creates the factory.
func NewUnitOfWorkFactory(db *gorm.DB, log *zap.Logger) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, log: log}
}

// New returns a fresh unit of work with no pending mutations.
func (f *UnitOfWorkFactory) New() user.UnitOfWork {
	return &unitOfWork{db: f.db, log: f.log}
}

// unitOfWork tracks staged mutations in memory and flushes them inside one
// database transaction on Commit. A unit is bound to a single use-case
// invocation and is not safe for concurrent use.
type unitOfWork struct {
	db      *gorm.DB
	log     *zap.Logger
	pending []func(tx *gorm.DB) error
}

// AddUser stages an insert. The store-assigned id and creation time are
// copied back onto the entity when the unit commits.
func (u *unitOfWork) AddUser(usr *domain.User) {
	u.pending = append(u.pending, func(tx *gorm.DB) error {
		model := schemaFromDomain(usr)
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		usr.ID = model.ID
		usr.CreatedOn = model.CreatedOn
		return nil
	})
}

// UpdateUser stages a full-row update.
func (u *unitOfWork) UpdateUser(usr *domain.User) {
	u.pending = append(u.pending, func(tx *gorm.DB) error {
		if err := tx.Save(schemaFromDomain(usr)).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return nil
	})
}

// Commit flushes every staged mutation in one transaction.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if len(u.pending) == 0 {
		return nil
	}

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range u.pending {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		u.log.Error("failed to commit unit of work", zap.Int("mutations", len(u.pending)), zap.Error(err))
		return err
	}

	u.log.Debug("unit of work committed", zap.Int("mutations", len(u.pending)))
	u.pending = nil
	return nil
}
