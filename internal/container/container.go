// Package container builds the application graph from configuration.
// Optional collaborators (Redis, Elasticsearch, GCS, broker) are left as
// untyped nils when disabled so services can test them against nil.
package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/config"
	"github.com/baltotest/freight-api/internal/application"
	"github.com/baltotest/freight-api/internal/domain/event"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
	"github.com/baltotest/freight-api/internal/infrastructure/cache"
	"github.com/baltotest/freight-api/internal/infrastructure/gormstore"
	"github.com/baltotest/freight-api/internal/infrastructure/memory"
	"github.com/baltotest/freight-api/internal/infrastructure/messaging"
	pginfra "github.com/baltotest/freight-api/internal/infrastructure/postgres"
	"github.com/baltotest/freight-api/internal/infrastructure/search"
	"github.com/baltotest/freight-api/internal/infrastructure/storage"
	"github.com/baltotest/freight-api/pkg/helpers"
)

const (
	DriverPostgres = "postgres"
	DriverGorm     = "gorm"
	DriverMemory   = "memory"

	BrokerRabbitMQ = "rabbitmq"
	BrokerKafka    = "kafka"
)

// Repositories groups the persistence ports of one storage driver.
type Repositories struct {
	Users    repo.UserRepository
	Loads    repo.LoadRepository
	Messages repo.MessageRepository
	Channels repo.ChannelRepository
	Activity repo.ActivityRepository
	Tx       repo.TxManager
}

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Repos    Repositories
	Redis    *redis.Client // nil when disabled
	Sessions application.SessionStore
	Tokens   *helpers.JWTManager
	Cookies  *helpers.CookieManager
	Events   event.Publisher

	Auth     *application.AuthService
	Profile  *application.ProfileService
	Loads    *application.LoadService
	Messages *application.MessageService
	Channels *application.ChannelService
	Activity *application.ActivityService

	closers []func() error
}

// New connects every configured backend and wires the services. On error,
// anything already opened is closed.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (_ *Container, err error) {
	c := &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if c.Repos, err = c.openRepositories(ctx); err != nil {
		return nil, err
	}

	if cfg.RedisEnabled {
		c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		c.onClose(c.Redis.Close)
		if perr := c.Redis.Ping(ctx).Err(); perr != nil {
			logger.WithError(perr).Warn("redis unreachable; sessions and rate limits will fail open")
		}
		c.Sessions = cache.NewSessionStore(c.Redis, cfg.SessionTTL, logger)
	}

	c.Tokens = helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	c.Cookies = helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	if c.Events, err = c.openPublisher(); err != nil {
		return nil, err
	}

	var index application.LoadIndexer
	if cfg.SearchEnabled {
		es, eerr := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if eerr != nil {
			return nil, fmt.Errorf("elasticsearch: %w", eerr)
		}
		index = search.NewLoadIndex(es, cfg.ESLoadsIndex)
	}

	var attachments application.AttachmentStore
	if cfg.GCSBucket != "" {
		gcs, gerr := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if gerr != nil {
			return nil, fmt.Errorf("gcs: %w", gerr)
		}
		c.onClose(gcs.Close)
		attachments = storage.NewGCSAttachmentStore(gcs, cfg.GCSBucket)
	}

	r := c.Repos
	c.Auth = application.NewAuthService(r.Users, c.Tokens, helpers.BcryptHasher{}, c.Sessions, logger)
	c.Profile = application.NewProfileService(r.Users, c.Sessions, logger)
	c.Loads = application.NewLoadService(r.Loads, r.Users, r.Messages, r.Tx, c.Events, index, logger)
	c.Messages = application.NewMessageService(r.Messages, r.Loads, r.Users, r.Channels, r.Tx, c.Events, attachments, logger)
	c.Channels = application.NewChannelService(r.Channels, r.Messages, r.Tx, logger)
	c.Activity = application.NewActivityService(r.Activity, logger)
	return c, nil
}

func (c *Container) openRepositories(ctx context.Context) (Repositories, error) {
	cfg := c.Config
	switch cfg.StorageDriver {
	case DriverPostgres:
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
			return Repositories{}, fmt.Errorf("migrate: %w", err)
		}
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return Repositories{}, fmt.Errorf("postgres: %w", err)
		}
		c.onClose(func() error { pool.Close(); return nil })
		return postgresRepositories(pool), nil
	case DriverGorm:
		db, err := gormstore.Open(ctx, cfg.GormDialect, cfg.GormDSN())
		if err != nil {
			return Repositories{}, fmt.Errorf("gorm: %w", err)
		}
		if sqlDB, derr := db.DB(); derr == nil {
			c.onClose(sqlDB.Close)
		}
		s := gormstore.NewStore(db)
		return Repositories{Users: s.Users(), Loads: s.Loads(), Messages: s.Messages(), Channels: s.Channels(), Activity: s.Activity(), Tx: s.Tx()}, nil
	case DriverMemory:
		c.Logger.Warn("using in-memory storage; data is lost on restart")
		s := memory.NewStore()
		return Repositories{Users: s.Users(), Loads: s.Loads(), Messages: s.Messages(), Channels: s.Channels(), Activity: s.Activity(), Tx: s}, nil
	}
	return Repositories{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func postgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:    pginfra.NewUserRepository(pool),
		Loads:    pginfra.NewLoadRepository(pool),
		Messages: pginfra.NewMessageRepository(pool),
		Channels: pginfra.NewChannelRepository(pool),
		Activity: pginfra.NewActivityRepository(pool),
		Tx:       pginfra.NewTxManager(pool),
	}
}

func (c *Container) openPublisher() (event.Publisher, error) {
	cfg := c.Config
	if !cfg.MessagingEnabled {
		return messaging.NewNoopPublisher(c.Logger), nil
	}
	var (
		broker event.Broker
		err    error
	)
	switch cfg.EventBroker {
	case BrokerRabbitMQ:
		broker, err = messaging.NewRabbitBroker(cfg.RabbitMQURL)
	case BrokerKafka:
		broker, err = messaging.NewKafkaBroker(cfg.KafkaBrokerList())
	default:
		return nil, fmt.Errorf("unknown event broker %q", cfg.EventBroker)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.EventBroker, err)
	}
	p := messaging.NewBrokerPublisher(broker, cfg.PublishTimeout, c.Logger)
	c.onClose(p.Close)
	return p, nil
}

func (c *Container) onClose(fn func() error) { c.closers = append(c.closers, fn) }

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
