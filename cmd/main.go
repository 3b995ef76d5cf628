package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers/copy_availability_window"
	createAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getPolicyHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_scheduling_policy"
	listAppointmentsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_appointments"
	listRulesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_availability_rules"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reschedule_appointment"
	updateStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_appointment_status"
	updatePolicyHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_scheduling_policy"
	upsertRuleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/upsert_availability_rule"
	validateAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/validate_appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/cache"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	policyRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	appointmentsService "github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	policyService "github.com/m04kA/SMC-SchedulingService/internal/service/policy"
	bookAppointmentUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	validateAppointmentUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/validate_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/tracing"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// scheduleCache кэш правил и политики: Redis или Noop
type scheduleCache interface {
	GetRule(ctx context.Context, dayOfWeek int) (*domain.AvailabilityRule, error)
	SetRule(ctx context.Context, rule *domain.AvailabilityRule) error
	InvalidateRules(ctx context.Context, days ...int) error
	GetPolicy(ctx context.Context) (*domain.SchedulingPolicy, error)
	SetPolicy(ctx context.Context, p *domain.SchedulingPolicy) error
	InvalidatePolicy(ctx context.Context) error
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Трассировка (при выключенной ставятся только пропагаторы)
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to set up tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обёртка БД с метриками запросов
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.Wrap(db, metricsCollector)
		wrappedDB.CollectPoolStats(time.Duration(cfg.Metrics.PoolStatsInterval)*time.Second, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	txMgr := txmanager.New(wrappedDB, txmanager.WithLockTimeout(cfg.Scheduling.LockTimeout()))

	// Кэш правил и политики
	var configCache scheduleCache = cache.Noop{}
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()

		if err != nil {
			log.Warn("Redis is unavailable at %s, cache disabled: %v", cfg.Redis.Addr, err)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			configCache = cache.New(redisClient, cfg.Redis.TTL())
			log.Info("Redis cache enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.TTL())
		}
	}

	// Публикация событий в Kafka (без брокеров выключена)
	publisher := events.NewPublisher(cfg.Kafka.BrokerList(), cfg.Kafka.TopicPrefix, log)
	defer publisher.Close()

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	policyRepository := policyRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		configCache,
		txMgr,
		log,
	)
	policySvc := policyService.NewService(
		policyRepository,
		availabilityRepository,
		configCache,
		txMgr,
		cfg.Scheduling.DefaultTimezone,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		publisher,
		txMgr,
		log,
	)

	// Инициализируем use cases
	validateAppointmentUseCase := validateAppointmentUC.NewUseCase(
		availabilitySvc,
		policySvc,
		appointmentRepository,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		availabilitySvc,
		policySvc,
		appointmentRepository,
		log,
	)
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		appointmentRepository,
		availabilitySvc,
		policySvc,
		txMgr,
		publisher,
		metricsCollector,
		cfg.Scheduling.BookingTimeout(),
		log,
	)

	// Инициализируем handlers
	validateAppointment := validateAppointmentHandler.NewHandler(validateAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	updateStatus := updateStatusHandler.NewHandler(appointmentsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	listRules := listRulesHandler.NewHandler(availabilitySvc, log)
	upsertRule := upsertRuleHandler.NewHandler(availabilitySvc, log)
	copyWindow := copy_availability_window.NewHandler(availabilitySvc, log)
	getPolicy := getPolicyHandler.NewHandler(policySvc, log)
	updatePolicy := updatePolicyHandler.NewHandler(policySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Проверка записи без сохранения
	api.HandleFunc("/appointments/validate", validateAppointment.Handle).Methods(http.MethodPost)

	// Доступные слоты на дату
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Правила доступности и политика
	api.HandleFunc("/availability-rules", listRules.Handle).Methods(http.MethodGet)
	api.HandleFunc("/scheduling-policy", getPolicy.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Чтение записей ---
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}", getAppointment.Handle).Methods(http.MethodGet)

	// --- Изменения (с ограничением частоты) ---
	rateLimiter := middleware.NewRateLimiter(
		cfg.Scheduling.WriteRateLimit,
		cfg.Scheduling.WriteRateBurst,
		log,
		middleware.WithIdleTTL(cfg.Scheduling.RateLimitIdleTTL()),
		middleware.WithTrustedProxy(cfg.Scheduling.TrustForwardedFor),
	)
	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	defer stopLimiter()
	go rateLimiter.Run(limiterCtx)
	writes := protected.PathPrefix("").Subrouter()
	writes.Use(rateLimiter.Middleware)

	writes.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	writes.HandleFunc("/appointments/{appointmentId:[0-9]+}", rescheduleAppointment.Handle).Methods(http.MethodPut)
	writes.HandleFunc("/appointments/{appointmentId:[0-9]+}/status", updateStatus.Handle).Methods(http.MethodPatch)

	writes.HandleFunc("/availability-rules/{dayOfWeek:[0-9]+}", upsertRule.Handle).Methods(http.MethodPut)
	writes.HandleFunc("/availability-rules/{dayOfWeek:[0-9]+}/copy-window", copyWindow.Handle).Methods(http.MethodPost)
	writes.HandleFunc("/scheduling-policy", updatePolicy.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool и очистку ограничителя
	close(stopMetricsCh)
	stopLimiter()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
