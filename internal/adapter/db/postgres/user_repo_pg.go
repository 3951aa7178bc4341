package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/Ivanildsdev/myrecipebook/internal/domain/user"
)

// UserStore implements the read side of user persistence on PostgreSQL
// through GORM.
type UserStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *gorm.DB, log *zap.Logger) *UserStore {
	return &UserStore{db: db, log: log}
}

// UserSchema represents the database schema for the users table. Email has
// no unique constraint on purpose: uniqueness only holds among active users,
// so it is enforced by the ExistsActiveWithEmail query instead.
type UserSchema struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	UserIdentifier uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name           string    `gorm:"not null"`
	Email          string    `gorm:"not null;index"`
	Password       string    `gorm:"not null"`
	Active         bool      `gorm:"not null;default:true"`
	CreatedOn      time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (m *UserSchema) toDomain() *domain.User {
	return &domain.User{
		ID:             m.ID,
		UserIdentifier: m.UserIdentifier,
		Name:           m.Name,
		Email:          m.Email,
		Password:       m.Password,
		Active:         m.Active,
		CreatedOn:      m.CreatedOn,
	}
}

func schemaFromDomain(u *domain.User) *UserSchema {
	return &UserSchema{
		ID:             u.ID,
		UserIdentifier: u.UserIdentifier,
		Name:           u.Name,
		Email:          u.Email,
		Password:       u.Password,
		Active:         u.Active,
		CreatedOn:      u.CreatedOn,
	}
}

// ExistsActiveWithEmail reports whether an active user holds the email.
func (s *UserStore) ExistsActiveWithEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("email = ? AND active = ?", email, true).
		Count(&count).Error
	if err != nil {
		s.log.Error("failed to check active email", zap.String("email", email), zap.Error(err))
		return false, fmt.Errorf("failed to check active email: %w", err)
	}
	return count > 0, nil
}

// FindActiveByIdentifier retrieves an active user by external identifier.
// Returns nil when no active user holds it.
func (s *UserStore) FindActiveByIdentifier(ctx context.Context, identifier uuid.UUID) (*domain.User, error) {
	var model UserSchema
	err := s.db.WithContext(ctx).
		Where("user_identifier = ? AND active = ?", identifier, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Debug("no active user with identifier", zap.String("identifier", identifier.String()))
			return nil, nil
		}
		s.log.Error("failed to get user by identifier", zap.String("identifier", identifier.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get user by identifier: %w", err)
	}
	return model.toDomain(), nil
}

// FindByEmailAndPasswordHash retrieves the active user matching both the
// email and the stored password digest. Returns nil when either is wrong.
func (s *UserStore) FindByEmailAndPasswordHash(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	var model UserSchema
	err := s.db.WithContext(ctx).
		Where("email = ? AND password = ? AND active = ?", email, passwordHash, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.log.Error("failed to get user by credentials", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to get user by credentials: %w", err)
	}
	return model.toDomain(), nil
}

// FindByID retrieves a user by internal id.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var model UserSchema
	if err := s.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("user not found", zap.Int64("id", id))
			return nil, fmt.Errorf("user not found: id=%d", id)
		}
		s.log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return model.toDomain(), nil
}
