package config

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const defaultConfigPath = "src/internal/config/cfg.yml"

type Configuration struct {
	Logs     LogsSettings     `mapstructure:"logs"`
	App      Application      `mapstructure:"app"`
	Database Database         `mapstructure:"database"`
	Queue    QueueConfig      `mapstructure:"queue"`
	Redis    Redis            `mapstructure:"redis"`
	Security SecuritySettings `mapstructure:"security"`
	Server   ServerSettings   `mapstructure:"server"`
	Cache    CacheConfig      `mapstructure:"cache"`
	Stats    StatsConfig      `mapstructure:"stats"`
}

type LogsSettings struct {
	Level            string `mapstructure:"level"`
	Path             string `mapstructure:"log-path"`
	EnableJSONOutput bool   `mapstructure:"enable-json-output"`
}

type Application struct {
	Name     string `mapstructure:"name"`
	Timeout  int    `mapstructure:"timeout"`
	Version  string `mapstructure:"version"`
	TimeZone string `mapstructure:"time-zone"`
}

type Database struct {
	Driver            string `mapstructure:"driver"`
	Url               string `mapstructure:"url"`
	DSN               string `mapstructure:"dsn"`
	DbName            string `mapstructure:"dbname"`
	UserCollection    string `mapstructure:"user-collection"`
	SessionCollection string `mapstructure:"session-collection"`
	CounterCollection string `mapstructure:"counter-collection"`
	Timeout           int    `mapstructure:"timeout"`
}

type QueueConfig struct {
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

type RabbitMQConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Url          string `mapstructure:"url"`
	Exchange     string `mapstructure:"exchange"`
	ExchangeType string `mapstructure:"exchange-type"`
	RoutingKey   string `mapstructure:"routing-key"`
	Durable      bool   `mapstructure:"durable"`
	AutoDelete   bool   `mapstructure:"auto-delete"`
	Internal     bool   `mapstructure:"internal"`
	NoWait       bool   `mapstructure:"no-wait"`
}

type Redis struct {
	Url      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	Db       int    `mapstructure:"db"`
}

type SecuritySettings struct {
	JwtKey         string `mapstructure:"jwt-key"`
	Issuer         string `mapstructure:"issuer"`
	Audience       string `mapstructure:"audience"`
	ExpireDays     int    `mapstructure:"expire-days"`
	SingleUserMode bool   `mapstructure:"single-user-mode"`
	DefaultUserID  string `mapstructure:"default-user-id"`
}

type ServerSettings struct {
	Port         string `mapstructure:"port"`
	Mode         string `mapstructure:"mode"`
	ReadTimeout  int    `mapstructure:"read-timeout"`
	WriteTimeout int    `mapstructure:"write-timeout"`
	IdleTimeout  int    `mapstructure:"idle-timeout"`
}

type CacheConfig struct {
	Enabled                bool   `mapstructure:"enabled"`
	StatsKeyPrefix         string `mapstructure:"stats-key-prefix"`
	StatsExpirationMinutes int    `mapstructure:"stats-expiration-minutes"`
	RevokedTokenKeyPrefix  string `mapstructure:"revoked-token-key-prefix"`
}

type StatsConfig struct {
	MaxCalendarDays int `mapstructure:"max-calendar-days"`
}

func Load() *Configuration {
	cfg := read(configPath())
	logrus.Info("Configuration loaded")

	// Override with environment variables
	overrideString(&cfg.Database.Driver, "DB_DRIVER")
	overrideString(&cfg.Database.Url, "MONGODB_URL")
	overrideString(&cfg.Database.DbName, "DB_NAME")
	overrideString(&cfg.Database.DSN, "DB_DSN")
	overrideString(&cfg.Redis.Url, "REDIS_URL")
	overrideString(&cfg.Queue.RabbitMQ.Url, "RABBITMQ_URL")
	overrideString(&cfg.Security.JwtKey, "JWT_KEY")
	overrideString(&cfg.Server.Port, "SERVER_PORT")
	overrideString(&cfg.App.TimeZone, "APP_TIME_ZONE")

	redisDB := os.Getenv("REDIS_DB")
	if redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			cfg.Redis.Db = db
		}
	}

	return cfg
}

// Location resolves app.time-zone. Unknown zones fall back to the host zone.
func (c *Configuration) Location() *time.Location {
	if c.App.TimeZone == "" || c.App.TimeZone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.App.TimeZone)
	if err != nil {
		logrus.WithError(err).WithField("time_zone", c.App.TimeZone).Warn("Unknown time zone, using local")
		return time.Local
	}
	return loc
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultConfigPath
}

func overrideString(target *string, env string) {
	if value := os.Getenv(env); value != "" {
		*target = value
	}
}

func read(path string) *Configuration {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yml")
	v.AutomaticEnv()
	setDefaults(v)

	var config Configuration

	err := v.ReadInConfig()
	if err != nil {
		logrus.Panicf("Error reading config file, %s", err)
	}

	err = v.Unmarshal(&config)
	if err != nil {
		logrus.Panicf("Error unmarshalling config file, %s", err)
	}

	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pomodoro-api-svc")
	v.SetDefault("app.timeout", 10)
	v.SetDefault("app.time-zone", "Local")
	v.SetDefault("logs.level", "info")
	v.SetDefault("database.driver", "mongodb")
	v.SetDefault("database.dbname", "pomodoro")
	v.SetDefault("database.user-collection", "users")
	v.SetDefault("database.session-collection", "pomodoro_sessions")
	v.SetDefault("database.counter-collection", "counters")
	v.SetDefault("database.timeout", 10)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read-timeout", 15)
	v.SetDefault("server.write-timeout", 15)
	v.SetDefault("server.idle-timeout", 60)
	v.SetDefault("security.expire-days", 7)
	v.SetDefault("security.default-user-id", "defaultUser")
	v.SetDefault("cache.stats-key-prefix", "stats")
	v.SetDefault("cache.stats-expiration-minutes", 5)
	v.SetDefault("cache.revoked-token-key-prefix", "revoked")
	v.SetDefault("queue.rabbitmq.exchange", "pomodoro.events")
	v.SetDefault("queue.rabbitmq.exchange-type", "topic")
	v.SetDefault("queue.rabbitmq.routing-key", "pomodoro.session")
	v.SetDefault("stats.max-calendar-days", 1096)
}
