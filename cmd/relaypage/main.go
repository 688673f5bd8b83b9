package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	// _ "github.com/mattn/go-sqlite3" // requires gcc
	_ "modernc.org/sqlite"

	config "github.com/davicafu/relaypage/internal/config"
	sharedInfraEvents "github.com/davicafu/relaypage/internal/shared/infra/events"
	sharedBus "github.com/davicafu/relaypage/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/relaypage/internal/shared/infra/platform/cache"
	"github.com/davicafu/relaypage/internal/shared/infra/platform/metrics"
	taskApp "github.com/davicafu/relaypage/internal/task/application"
	taskDomain "github.com/davicafu/relaypage/internal/task/domain"
	taskEvents "github.com/davicafu/relaypage/internal/task/infra/inbound/events"
	taskHttp "github.com/davicafu/relaypage/internal/task/infra/inbound/http"
	taskActivity "github.com/davicafu/relaypage/internal/task/infra/outbound/analytics/clickhouse"
	taskMongo "github.com/davicafu/relaypage/internal/task/infra/outbound/db/mongodb"
	taskPostgres "github.com/davicafu/relaypage/internal/task/infra/outbound/db/postgre"
	taskSQLite "github.com/davicafu/relaypage/internal/task/infra/outbound/db/sqlite"
	userApp "github.com/davicafu/relaypage/internal/user/application"
	userDomain "github.com/davicafu/relaypage/internal/user/domain"
	userEvents "github.com/davicafu/relaypage/internal/user/infra/inbound/events"
	userHttp "github.com/davicafu/relaypage/internal/user/infra/inbound/http"
	userPostgres "github.com/davicafu/relaypage/internal/user/infra/outbound/db/postgre"
	userSQLite "github.com/davicafu/relaypage/internal/user/infra/outbound/db/sqlite"
	"github.com/davicafu/relaypage/pkg/logger"
)

// ---------------- Main ----------------
func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.LogLevel) // inicializa zap
	log := logger.Logger()    // obtiene logger estructurado
	defer log.Sync()          // flush buffers al salir

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------- DB ----------------
	sqliteDB, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		log.Fatal("failed to open SQLite", zap.Error(err))
	}
	defer sqliteDB.Close()

	var postgresDB *sql.DB
	if cfg.UserStore == config.StorePostgres || cfg.TaskStore == config.StorePostgres {
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL is required for the postgres store")
		}
		postgresDB, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to open Postgres", zap.Error(err))
		}
		defer postgresDB.Close()
		if err := postgresDB.PingContext(ctx); err != nil {
			log.Fatal("failed to ping Postgres", zap.Error(err))
		}
	}

	var userRepo userDomain.UserRepository
	switch cfg.UserStore {
	case config.StorePostgres:
		if err := userPostgres.InitPostgres(postgresDB); err != nil {
			log.Fatal("failed to initialize users in Postgres", zap.Error(err))
		}
		userRepo = userPostgres.NewUserRepoPostgres(postgresDB)
	default:
		if err := userSQLite.InitSQLite(sqliteDB); err != nil {
			log.Fatal("failed to initialize users in SQLite", zap.Error(err))
		}
		userRepo = userSQLite.NewUserRepoSQLite(sqliteDB)
	}

	var taskRepo taskDomain.TaskRepository
	switch cfg.TaskStore {
	case config.StorePostgres:
		if err := taskPostgres.InitPostgres(postgresDB); err != nil {
			log.Fatal("failed to initialize tasks in Postgres", zap.Error(err))
		}
		taskRepo = taskPostgres.NewTaskRepoPostgres(postgresDB)
	case config.StoreMongo:
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer mongoClient.Disconnect(context.Background())

		repo, err := taskMongo.NewTaskRepoMongoDB(ctx, mongoClient, cfg.MongoDB)
		if err != nil {
			log.Fatal("failed to initialize tasks in MongoDB", zap.Error(err))
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Fatal("failed to create MongoDB indexes", zap.Error(err))
		}
		taskRepo = repo
	default:
		if err := taskSQLite.InitSQLite(sqliteDB); err != nil {
			log.Fatal("failed to initialize tasks in SQLite", zap.Error(err))
		}
		taskRepo = taskSQLite.NewTaskRepoSQLite(sqliteDB)
	}
	log.Info("Stores listos", zap.String("users", cfg.UserStore), zap.String("tasks", cfg.TaskStore))

	// El historial de actividad es opcional: sin ClickHouse el endpoint responde 503.
	var activityRepo taskDomain.ActivityRepository
	if cfg.ClickHouseAddr != "" {
		repo, err := taskActivity.NewTaskActivityRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Warn("⚠️ ClickHouse no disponible, historial de actividad deshabilitado", zap.Error(err))
		} else if err := repo.InitSchema(); err != nil {
			log.Warn("⚠️ No se pudo crear la tabla de actividad", zap.Error(err))
		} else {
			activityRepo = repo
			log.Info("✅ ClickHouse conectado, historial de actividad habilitado")
		}
	}

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
		cacheInstance = sharedCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
	} else {
		cacheInstance = sharedCache.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info("✅ Redis conectado, cache habilitado")
	}
	counts := sharedCache.NewCountStore(cacheInstance, int(cfg.CacheTTL.Seconds()), log)

	// ---------------- Events ---------------
	var eventUserPublisher sharedBus.EventPublisher
	var eventTaskPublisher sharedBus.EventPublisher

	userConsumer := userEvents.NewUserConsumer(counts, log)
	taskConsumer := taskEvents.NewTaskConsumer(activityRepo, counts, log)

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos")

		userWriter := &kafka.Writer{Addr: kafka.TCP(cfg.KafkaBrokers...), Topic: userDomain.UserTopic, Balancer: &kafka.Hash{}}
		taskWriter := &kafka.Writer{Addr: kafka.TCP(cfg.KafkaBrokers...), Topic: taskDomain.TaskTopic, Balancer: &kafka.Hash{}}
		userPublisher := sharedInfraEvents.NewKafkaPublisher(userWriter, log)
		taskPublisher := sharedInfraEvents.NewKafkaPublisher(taskWriter, log)
		defer userPublisher.Close()
		defer taskPublisher.Close()
		eventUserPublisher = userPublisher
		eventTaskPublisher = taskPublisher

		userKafkaReader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    userDomain.UserTopic,
			GroupID:  "relaypage-user-counts",
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})
		taskKafkaReader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    taskDomain.TaskTopic,
			GroupID:  "relaypage-task-activity",
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})

		// Cada adaptador cierra su reader al terminar.
		sharedInfraEvents.NewConsumerAdapter(userKafkaReader, userConsumer, log).Start(ctx)
		sharedInfraEvents.NewConsumerAdapter(taskKafkaReader, taskConsumer, log).Start(ctx)
	} else {
		log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")

		inMemoryUserBus := sharedInfraEvents.NewInMemoryEventBus(userDomain.UserTopic)
		inMemoryTaskBus := sharedInfraEvents.NewInMemoryEventBus(taskDomain.TaskTopic)
		eventUserPublisher = inMemoryUserBus
		eventTaskPublisher = inMemoryTaskBus

		log.Info("🎧 Iniciando listener en memoria para eventos de usuario")
		sharedInfraEvents.BackgroundConsumerChan(ctx, inMemoryUserBus.Subscribe(100), userConsumer, log)

		log.Info("🎧 Iniciando listener en memoria para eventos de tarea")
		sharedInfraEvents.BackgroundConsumerChan(ctx, inMemoryTaskBus.Subscribe(100), taskConsumer, log)
	}

	// --------------- Servicio --------------
	userService := userApp.NewUserService(userRepo, counts, eventUserPublisher, cfg.MaxPageLimit, log)
	taskService := taskApp.NewTaskService(taskRepo, activityRepo, cacheInstance, counts, eventTaskPublisher, cfg.MaxPageLimit, log)

	// ---------------- HTTP ----------------
	router := gin.New()
	router.Use(gin.Recovery(), metrics.Middleware())
	userHttp.RegisterUserRoutes(router, userHttp.NewUserHandler(userService))
	taskHttp.RegisterTaskRoutes(router, taskHttp.NewTaskHandler(taskService))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}
	go func() {
		log.Info("🚀 Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Apagando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
