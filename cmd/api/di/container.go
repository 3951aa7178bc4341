package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ivanildsdev/myrecipebook/cmd/api/infrastructure"
	"github.com/Ivanildsdev/myrecipebook/internal/adapter/cache"
	"github.com/Ivanildsdev/myrecipebook/internal/adapter/db/postgres"
	ginhandler "github.com/Ivanildsdev/myrecipebook/internal/adapter/gin/handler"
	"github.com/Ivanildsdev/myrecipebook/internal/adapter/repository/cached"
	"github.com/Ivanildsdev/myrecipebook/internal/config"
	"github.com/Ivanildsdev/myrecipebook/internal/usecase/user"
	redisclient "github.com/Ivanildsdev/myrecipebook/pkg/redis"
	"github.com/Ivanildsdev/myrecipebook/pkg/security"
)

// Container holds all application dependencies. Wiring happens here, once,
// at process start; no component resolves its own collaborators.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	TokenCodec  *security.TokenCodec
	UserRepo    user.ReadRepository
	UserUC      user.Usecase
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis client
	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Initialize cache layer
	userCache := cache.NewRedisUserCache(
		rdb.Client,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		l,
	)

	// Initialize repositories
	store := postgres.NewUserStore(db, l)
	repo := cached.NewCachedUserRepository(store, userCache, l)
	uowFactory := postgres.NewUnitOfWorkFactory(db, l)

	// Initialize security services
	tokenCodec := security.NewTokenCodec(cfg.Auth.JWTSigningKey, cfg.Auth.JWTExpirationMinutes)
	hasher := security.NewSha512Hasher(cfg.Auth.PasswordAdditionalKey)

	// Initialize use case
	userUC := user.New(repo, uowFactory, userCache, hasher, tokenCodec, l)

	// Initialize Gin handler
	ginHandler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		TokenCodec:  tokenCodec,
		UserRepo:    repo,
		UserUC:      userUC,
		GinHandler:  ginHandler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
