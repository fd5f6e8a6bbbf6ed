package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/logger"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/config"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/handler"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/infrastructure"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/infrastructure/cache"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/infrastructure/messaging"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/processor"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/repository"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/service"
)

const serviceName = "recipes-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.LogLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, serviceName, cfg.LogLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// === MONGODB: документы рецептов ===
	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	// === POSTGRESQL: пользователи и обратные индексы ===
	pool, err := connectPostgres(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	db, err := openGorm(pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize GORM")
	}
	if err := db.AutoMigrate(&entity.User{}, &entity.RecipeLink{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate user directory")
	}
	logger.Info().
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	// === REDIS: Idempotency-Key ===
	// Без Redis сервис работает, но повторы запросов не дедуплицируются
	var idempotencyStore infrastructure.IdempotencyStore
	redisClient, err := connectRedis(cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, Idempotency-Key support disabled")
	} else {
		defer redisClient.Close()
		idempotencyStore = cache.NewIdempotencyStore(
			redisClient,
			cfg.Interaction.IdempotencyTTL,
			cfg.Interaction.IdempotencyLockTTL,
		)
		logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")
	}

	// === KAFKA: доменные события ===
	var publisher infrastructure.MessagePublisher
	if cfg.Kafka.Enabled {
		kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaProducer.Close()
		publisher = kafkaProducer
		logger.Info().
			Str("topic", cfg.Kafka.Topic).
			Msg("Initialized Kafka producer")
	}

	recipeRepo := repository.NewRecipeRepository(mongoClient.Database(cfg.MongoDB.Database))
	userRepo := repository.NewUserRepository(db)

	writeOpts := service.WriteOptions{
		MaxWriteAttempts: cfg.Interaction.MaxWriteAttempts,
		RetryBackoff:     cfg.Interaction.RetryBackoff,
	}
	recipeService := service.NewRecipeService(recipeRepo, userRepo, publisher, writeOpts)
	interactionService := service.NewInteractionService(recipeRepo, userRepo, publisher, writeOpts)

	// === RECONCILE: сверка индексов по расписанию ===
	var scheduler *processor.ReconcileScheduler
	if cfg.Reconcile.Enabled {
		scheduler = processor.NewReconcileScheduler(
			service.NewIndexReconciler(recipeRepo, userRepo),
			cfg.Reconcile.Timeout,
		)
		if err := scheduler.Start(ctx, cfg.Reconcile.Schedule); err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.Reconcile.Schedule).Msg("Failed to start reconcile scheduler")
		}
	}

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	router := handler.SetupRoutes(handler.Handlers{
		Recipe:      handler.NewRecipeHandler(recipeService),
		Interaction: handler.NewInteractionHandler(interactionService),
		User:        handler.NewUserHandler(recipeService),
	}, authMiddleware, idempotencyStore)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Recipes Service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Recipes Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	stop()
	if scheduler != nil {
		scheduler.Stop()
	}

	logger.Info().Msg("Recipes Service stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, clientOptions)
		cancel()
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = client.Ping(pingCtx, nil)
			pingCancel()
			if err == nil {
				return client, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

// connectPostgres поднимает пул pgx с повторными попытками для запуска в Docker
func connectPostgres(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to PostgreSQL, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

// openGorm открывает GORM поверх пула pgx, соединения общие
func openGorm(pool *pgxpool.Pool) (*gorm.DB, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)

	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

func connectRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
