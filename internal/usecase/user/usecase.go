package user

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ivanildsdev/myrecipebook/internal/adapter/cache"
	"github.com/Ivanildsdev/myrecipebook/internal/auth"
	domain "github.com/Ivanildsdev/myrecipebook/internal/domain/user"
	apperrors "github.com/Ivanildsdev/myrecipebook/pkg/errors"
)

// Service implements the business logic for account management. Every
// collaborator is required; the composition root supplies concrete
// implementations, nothing is constructed as a fallback.
type Service struct {
	reads    ReadRepository
	uow      UnitOfWorkFactory
	cache    cache.UserCache
	hasher   PasswordHasher
	tokens   AccessTokenIssuer
	log      *zap.Logger
	validate *validator.Validate
}

// New creates the account service.
func New(
	reads ReadRepository,
	uow UnitOfWorkFactory,
	userCache cache.UserCache,
	hasher PasswordHasher,
	tokens AccessTokenIssuer,
	log *zap.Logger,
) *Service {
	return &Service{
		reads:    reads,
		uow:      uow,
		cache:    userCache,
		hasher:   hasher,
		tokens:   tokens,
		log:      log,
		validate: validator.New(),
	}
}

// Register creates a new active account. Structural rules and the
// active-email uniqueness check are both evaluated before the single
// pass/fail decision, so a failed request reports every violation at once
// and writes nothing.
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error) {
	s.log.Info("registering user", zap.String("email", in.Email))

	var codes []apperrors.Code
	if err := s.validate.Struct(in); err != nil {
		codes = validationCodes(err)
	}

	exists, err := s.reads.ExistsActiveWithEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to check email uniqueness", zap.String("email", in.Email), zap.Error(err))
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	}
	if exists {
		codes = append(codes, apperrors.CodeEmailAlreadyRegistered)
	}

	if len(codes) > 0 {
		s.log.Warn("register validation failed", zap.Int("violations", len(codes)))
		return nil, apperrors.NewValidationError(codes...)
	}

	u := &domain.User{
		UserIdentifier: uuid.New(),
		Name:           in.Name,
		Email:          in.Email,
		Password:       s.hasher.Hash(in.Password),
		Active:         true,
	}

	unit := s.uow.New()
	unit.AddUser(u)
	if err := unit.Commit(ctx); err != nil {
		s.log.Error("failed to persist new user", zap.Error(err))
		return nil, fmt.Errorf("persisting user: %w", err)
	}

	s.log.Info("user registered", zap.String("identifier", u.UserIdentifier.String()))
	return &RegisterResponse{Name: u.Name}, nil
}

// Login authenticates by (email, password digest). A miss on either field
// yields the same ErrInvalidCredentials so callers cannot tell which one was
// wrong.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	digest := s.hasher.Hash(in.Password)

	u, err := s.reads.FindByEmailAndPasswordHash(ctx, in.Email, digest)
	if err != nil {
		s.log.Error("failed to query user for login", zap.Error(err))
		return nil, fmt.Errorf("querying user: %w", err)
	}
	if u == nil {
		s.log.Warn("login rejected", zap.String("email", in.Email))
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.UserIdentifier)
	if err != nil {
		s.log.Error("failed to issue access token", zap.Error(err))
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	return &LoginResponse{Name: u.Name, AccessToken: token}, nil
}

// Profile maps the identity resolved by the authorization gate to a profile
// response. No validation, no mutation.
func (s *Service) Profile(ctx context.Context) (*ProfileResponse, error) {
	logged, ok := auth.FromContext(ctx)
	if !ok {
		return nil, apperrors.ErrAccessDenied
	}

	return &ProfileResponse{Name: logged.Name, Email: logged.Email}, nil
}

// Update changes the authenticated user's name and email. The uniqueness
// check only runs when the email actually changes; on any violation the
// entity is left untouched.
func (s *Service) Update(ctx context.Context, in UpdateRequest) error {
	logged, ok := auth.FromContext(ctx)
	if !ok {
		return apperrors.ErrAccessDenied
	}

	var codes []apperrors.Code
	if err := s.validate.Struct(in); err != nil {
		codes = validationCodes(err)
	}

	if in.Email != logged.Email {
		exists, err := s.reads.ExistsActiveWithEmail(ctx, in.Email)
		if err != nil {
			s.log.Error("failed to check email uniqueness", zap.String("email", in.Email), zap.Error(err))
			return fmt.Errorf("checking email uniqueness: %w", err)
		}
		if exists {
			codes = append(codes, apperrors.CodeEmailAlreadyRegistered)
		}
	}

	if len(codes) > 0 {
		s.log.Warn("update validation failed", zap.Int("violations", len(codes)))
		return apperrors.NewValidationError(codes...)
	}

	u, err := s.reads.FindByID(ctx, logged.ID)
	if err != nil {
		s.log.Error("failed to load user for update", zap.Int64("id", logged.ID), zap.Error(err))
		return fmt.Errorf("loading user: %w", err)
	}

	u.Name = in.Name
	u.Email = in.Email

	unit := s.uow.New()
	unit.UpdateUser(u)
	if err := unit.Commit(ctx); err != nil {
		s.log.Error("failed to persist profile update", zap.Int64("id", u.ID), zap.Error(err))
		return fmt.Errorf("persisting update: %w", err)
	}

	s.invalidate(ctx, logged.UserIdentifier)
	return nil
}

// ChangePassword replaces the stored digest after verifying the supplied
// current password against it. The mismatch check joins the structural
// violations in one error list.
func (s *Service) ChangePassword(ctx context.Context, in ChangePasswordRequest) error {
	logged, ok := auth.FromContext(ctx)
	if !ok {
		return apperrors.ErrAccessDenied
	}

	var codes []apperrors.Code
	if err := s.validate.Struct(in); err != nil {
		codes = validationCodes(err)
	}

	if s.hasher.Hash(in.CurrentPassword) != logged.Password {
		codes = append(codes, apperrors.CodePasswordMismatch)
	}

	if len(codes) > 0 {
		s.log.Warn("change password validation failed", zap.Int("violations", len(codes)))
		return apperrors.NewValidationError(codes...)
	}

	u, err := s.reads.FindByID(ctx, logged.ID)
	if err != nil {
		s.log.Error("failed to load user for password change", zap.Int64("id", logged.ID), zap.Error(err))
		return fmt.Errorf("loading user: %w", err)
	}

	u.Password = s.hasher.Hash(in.NewPassword)

	unit := s.uow.New()
	unit.UpdateUser(u)
	if err := unit.Commit(ctx); err != nil {
		s.log.Error("failed to persist password change", zap.Int64("id", u.ID), zap.Error(err))
		return fmt.Errorf("persisting password change: %w", err)
	}

	s.invalidate(ctx, logged.UserIdentifier)
	return nil
}

// invalidate drops the cached identity after a committed mutation so the
// authorization gate never serves stale profile data. Failures are logged
// and swallowed, the cache entry expires on its own.
func (s *Service) invalidate(ctx context.Context, identifier uuid.UUID) {
	if err := s.cache.Delete(ctx, identifier); err != nil {
		s.log.Warn("failed to invalidate cached user", zap.String("identifier", identifier.String()), zap.Error(err))
	}
}
