package dependency

import (
	"context"
	"fmt"
	"pomodoro-api-svc/src/clients"
	"pomodoro-api-svc/src/internal/auth"
	"pomodoro-api-svc/src/internal/cache"
	"pomodoro-api-svc/src/internal/config"
	"pomodoro-api-svc/src/internal/session"
	"pomodoro-api-svc/src/internal/statistics"
	"pomodoro-api-svc/src/internal/user"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Manager struct {
	Router            *gin.Engine
	Config            *config.Configuration
	Mongodb           *clients.MongoDB
	SQL               *clients.SQLDB
	Redis             *clients.RedisClient
	RabbitMQ          *clients.RabbitMQ
	TokenManager      *auth.TokenManager
	CacheService      cache.Service
	SessionService    session.Service
	SessionHandler    session.Handler
	StatisticsService statistics.Service
	StatisticsHandler statistics.Handler
	UserService       user.Service
	UserHandler       user.Handler
}

// Storage holds the repositories of the configured database driver.
type Storage struct {
	Mongodb  *clients.MongoDB
	SQL      *clients.SQLDB
	Sessions session.Repository
	Users    user.Repository
}

func NewDependencyManager(router *gin.Engine, cfg *config.Configuration) (*Manager, error) {
	storage, err := OpenStorage(cfg)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		Router:  router,
		Config:  cfg,
		Mongodb: storage.Mongodb,
		SQL:     storage.SQL,
	}

	if err := m.setupCache(); err != nil {
		m.Close(context.Background())
		return nil, err
	}

	publisher, err := m.setupPublisher()
	if err != nil {
		m.Close(context.Background())
		return nil, err
	}

	m.TokenManager = auth.NewTokenManager(&cfg.Security)

	m.SessionService = session.NewSessionService(storage.Sessions, m.CacheService, publisher)
	m.SessionHandler = session.NewHandler(cfg, m.SessionService)

	m.StatisticsService = statistics.NewStatisticsService(storage.Sessions, m.CacheService, cfg)
	m.StatisticsHandler = statistics.NewHandler(cfg, m.StatisticsService)

	m.UserService = user.NewUserService(storage.Users, m.TokenManager, m.CacheService)
	m.UserHandler = user.NewHandler(cfg, m.UserService)

	return m, nil
}

// OpenStorage connects the configured database and makes sure its schema or
// indexes exist.
func OpenStorage(cfg *config.Configuration) (*Storage, error) {
	switch cfg.Database.Driver {
	case clients.DriverMongoDB:
		mongodb, err := clients.NewMongoDB(&cfg.Database)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.Timeout)*time.Second)
		defer cancel()

		if err := session.EnsureIndexes(ctx, mongodb, cfg.Database.SessionCollection); err != nil {
			_ = mongodb.Close(context.Background())
			return nil, err
		}
		if err := user.EnsureIndexes(ctx, mongodb, cfg.Database.UserCollection); err != nil {
			_ = mongodb.Close(context.Background())
			return nil, err
		}

		return &Storage{
			Mongodb:  mongodb,
			Sessions: session.NewSessionRepository(mongodb, cfg.Database.SessionCollection, cfg.Database.CounterCollection),
			Users:    user.NewUserRepository(mongodb, cfg.Database.UserCollection),
		}, nil

	case clients.DriverSQLite, clients.DriverPostgres:
		db, err := clients.NewSQLDB(&cfg.Database)
		if err != nil {
			return nil, err
		}

		return &Storage{
			SQL:      db,
			Sessions: session.NewSQLSessionRepository(db),
			Users:    user.NewSQLUserRepository(db),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// Close releases the storage connections.
func (s *Storage) Close(ctx context.Context) {
	if s.Mongodb != nil {
		_ = s.Mongodb.Close(ctx)
	}
	if s.SQL != nil {
		_ = s.SQL.Close()
	}
}

func (m *Manager) setupCache() error {
	if !m.Config.Cache.Enabled {
		logrus.Info("Cache disabled, reports are computed on every request")
		m.CacheService = cache.NewNoopCacheService()
		return nil
	}

	redisClient, err := clients.NewRedisClient(&m.Config.Redis)
	if err != nil {
		return err
	}

	m.Redis = redisClient
	m.CacheService = cache.NewCacheService(redisClient.Client, m.Config)
	return nil
}

func (m *Manager) setupPublisher() (session.EventPublisher, error) {
	rabbitCfg := &m.Config.Queue.RabbitMQ
	if !rabbitCfg.Enabled {
		logrus.Info("RabbitMQ disabled, session events will not be published")
		return clients.NoopPublisher{}, nil
	}

	rabbitMQ, err := clients.NewRabbitMQ(rabbitCfg)
	if err != nil {
		return nil, err
	}
	m.RabbitMQ = rabbitMQ

	if err := rabbitMQ.SetupExchange(); err != nil {
		logrus.WithError(err).Error("Failed to set up RabbitMQ exchange")
		return nil, err
	}

	return clients.NewEventPublisher(rabbitCfg, rabbitMQ.Channel), nil
}

// HealthChecks returns a ping per connected backend, keyed by component name.
func (m *Manager) HealthChecks() map[string]func(ctx context.Context) error {
	checks := make(map[string]func(ctx context.Context) error)
	if m.Mongodb != nil {
		checks["mongodb"] = m.Mongodb.Ping
	}
	if m.SQL != nil {
		checks[m.SQL.Driver] = m.SQL.Ping
	}
	if m.Redis != nil {
		checks["redis"] = m.Redis.Ping
	}
	return checks
}

func (m *Manager) Close(ctx context.Context) {
	if m.RabbitMQ != nil {
		_ = m.RabbitMQ.Close()
	}
	if m.Redis != nil {
		_ = m.Redis.Close()
	}
	storage := &Storage{Mongodb: m.Mongodb, SQL: m.SQL}
	storage.Close(ctx)
}
