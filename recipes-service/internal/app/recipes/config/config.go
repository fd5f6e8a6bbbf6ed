package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config содержит все настройки Recipes Service.
// Значения берутся из переменных окружения, файл .env подхватывается при наличии
type Config struct {
	Server      ServerConfig
	MongoDB     MongoDBConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	JWT         JWTConfig
	Interaction InteractionConfig
	Reconcile   ReconcileConfig
	LogLevel    string
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8085)
}

type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB
	Database string // Имя базы данных с документами рецептов
}

// DatabaseConfig - PostgreSQL со справочником пользователей и обратными индексами
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string // disable/require/verify-full
	MaxConns int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka через запятую (формат: host:port)
	Topic   string   // Топик для событий рецептов
	Enabled bool
}

type JWTConfig struct {
	Secret string // Секретный ключ для проверки JWT токенов провайдера идентификации
}

// InteractionConfig - повторы при конфликте версий и хранение Idempotency-Key
type InteractionConfig struct {
	MaxWriteAttempts   int
	RetryBackoff       time.Duration
	IdempotencyTTL     time.Duration // Сколько хранится ответ для повтора
	IdempotencyLockTTL time.Duration // Сколько живёт метка "запрос выполняется"
}

// ReconcileConfig - периодическая сверка индексов PostgreSQL с документами MongoDB
type ReconcileConfig struct {
	Enabled  bool
	Schedule string // Cron выражение из пяти полей, например "*/15 * * * *"
	Timeout  time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// .env нужен только для локального запуска
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8085"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "recipes_service"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "recipes_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 20)),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 3),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "recipe_events"),
			Enabled: getEnvBool("KAFKA_ENABLED", true),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		Interaction: InteractionConfig{
			MaxWriteAttempts:   getEnvInt("MAX_WRITE_ATTEMPTS", 5),
			RetryBackoff:       getEnvDuration("WRITE_RETRY_BACKOFF", 20*time.Millisecond),
			IdempotencyTTL:     getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
			IdempotencyLockTTL: getEnvDuration("IDEMPOTENCY_LOCK_TTL", 30*time.Second),
		},
		Reconcile: ReconcileConfig{
			Enabled:  getEnvBool("RECONCILE_ENABLED", true),
			Schedule: getEnv("RECONCILE_SCHEDULE", "*/15 * * * *"),
			Timeout:  getEnvDuration("RECONCILE_TIMEOUT", 2*time.Minute),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Interaction.MaxWriteAttempts < 1 {
		return fmt.Errorf("MAX_WRITE_ATTEMPTS must be positive, got %d", c.Interaction.MaxWriteAttempts)
	}
	if c.Interaction.IdempotencyLockTTL >= c.Interaction.IdempotencyTTL {
		return fmt.Errorf("IDEMPOTENCY_LOCK_TTL must be shorter than IDEMPOTENCY_TTL")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when Kafka is enabled")
	}
	if c.Reconcile.Enabled {
		if _, err := cron.ParseStandard(c.Reconcile.Schedule); err != nil {
			return fmt.Errorf("invalid RECONCILE_SCHEDULE %q: %w", c.Reconcile.Schedule, err)
		}
	}
	return nil
}

// DSN возвращает строку подключения к PostgreSQL в формате URL для pgx
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration принимает значения в формате time.ParseDuration ("150ms", "15m")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
