package user

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/Ivanildsdev/myrecipebook/internal/domain/user"
)

// Usecase defines the business operations around a user account.
type Usecase interface {
	Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, in LoginRequest) (*LoginResponse, error)
	Profile(ctx context.Context) (*ProfileResponse, error)
	Update(ctx context.Context, in UpdateRequest) error
	ChangePassword(ctx context.Context, in ChangePasswordRequest) error
}

// ReadRepository is the read side of user persistence. Lookups that feed
// uniqueness and authorization checks only consider active users.
type ReadRepository interface {
	ExistsActiveWithEmail(ctx context.Context, email string) (bool, error)
	FindActiveByIdentifier(ctx context.Context, identifier uuid.UUID) (*domain.User, error)
	FindByEmailAndPasswordHash(ctx context.Context, email, passwordHash string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// UnitOfWork stages inserts and updates in memory and flushes them in a
// single transaction on Commit. Commit is called exactly once per successful
// use-case invocation and never on a failed path.
type UnitOfWork interface {
	AddUser(u *domain.User)
	UpdateUser(u *domain.User)
	Commit(ctx context.Context) error
}

// UnitOfWorkFactory hands each invocation its own unit of work so concurrent
// requests never share pending mutations.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// PasswordHasher one-way transforms a plaintext password into its stored
// digest.
type PasswordHasher interface {
	Hash(password string) string
}

// AccessTokenIssuer produces a signed access token over a user identifier.
type AccessTokenIssuer interface {
	Issue(userIdentifier uuid.UUID) (string, error)
}
