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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"

	adminCancelBookingHandler "github.com/m04kA/SMC-DayBooking/internal/api/handlers/admin_cancel_booking"
	cancelBookingHandler "github.com/m04kA/SMC-DayBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-DayBooking/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-DayBooking/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-DayBooking/internal/api/handlers/get_calendar"
	getFullyBookedHandler "github.com/m04kA/SMC-DayBooking/internal/api/handlers/get_fully_booked"
	getPolicyHandler "github.com/m04kA/SMC-DayBooking/internal/api/handlers/get_policy"
	lookupBookingsHandler "github.com/m04kA/SMC-DayBooking/internal/api/handlers/lookup_bookings"
	runRetentionSweepHandler "github.com/m04kA/SMC-DayBooking/internal/api/handlers/run_retention_sweep"
	"github.com/m04kA/SMC-DayBooking/internal/api/middleware"
	"github.com/m04kA/SMC-DayBooking/internal/config"
	bookingRepo "github.com/m04kA/SMC-DayBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DayBooking/internal/infra/storage/migrations"
	eventsClient "github.com/m04kA/SMC-DayBooking/internal/integrations/events"
	bookingsService "github.com/m04kA/SMC-DayBooking/internal/service/bookings"
	calendarService "github.com/m04kA/SMC-DayBooking/internal/service/calendar"
	createBookingUC "github.com/m04kA/SMC-DayBooking/internal/usecase/create_booking"
	getCalendarUC "github.com/m04kA/SMC-DayBooking/internal/usecase/get_calendar"
	sweepRetentionUC "github.com/m04kA/SMC-DayBooking/internal/usecase/sweep_retention"
	"github.com/m04kA/SMC-DayBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-DayBooking/pkg/logger"
	"github.com/m04kA/SMC-DayBooking/pkg/metrics"
	"github.com/m04kA/SMC-DayBooking/pkg/mq"
	"github.com/m04kA/SMC-DayBooking/pkg/obs"
	"github.com/m04kA/SMC-DayBooking/pkg/sqlbuilder"
	"github.com/m04kA/SMC-DayBooking/pkg/txmanager"
)

// eventPublisher источник событий для клиента (RabbitMQ или заглушка)
type eventPublisher interface {
	eventsClient.Publisher
	Close() error
}

func main() {
	configPath := os.Getenv("BOOKING_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
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

	log.Info("Starting SMC-DayBooking...")
	log.Info("Configuration loaded from %s", configPath)

	// Значения уже проверены в config.Validate
	dialect := cfg.Dialect()
	location, _ := cfg.Location()
	retentionPolicy, _ := cfg.RetentionPolicy()
	admissionPolicy := cfg.AdmissionPolicy()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Трейсинг
	if cfg.Tracing.Enabled {
		shutdownTracer, err := obs.InitTracer(context.Background(), obs.TracerConfig{
			ServiceName:    cfg.Metrics.ServiceName,
			ServiceVersion: cfg.Tracing.ServiceVersion,
			Environment:    cfg.Tracing.Environment,
			Endpoint:       cfg.Tracing.Endpoint,
			Insecure:       cfg.Tracing.Insecure,
		})
		if err != nil {
			log.Fatal("Failed to initialize tracer: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(ctx); err != nil {
				log.Error("Failed to shutdown tracer: %v", err)
			}
		}()
		log.Info("Tracing enabled (endpoint=%s)", cfg.Tracing.Endpoint)
	}

	// Подключаемся к базе данных
	db, err := sql.Open(dialect.DriverName(), cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	if dialect == sqlbuilder.SQLite {
		// SQLite допускает одного писателя
		db.SetMaxOpenConns(1)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (driver=%s)", dialect)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Миграции
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrations.Apply(migrateCtx, wrappedDB, dialect, log); err != nil {
		cancelMigrate()
		log.Fatal("Failed to apply migrations: %v", err)
	}
	cancelMigrate()

	// Публикация событий
	var publisher eventPublisher = mq.NopPublisher{}
	if cfg.Events.Enabled {
		rabbit, err := mq.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = rabbit
		log.Info("Events enabled (exchange=%s)", cfg.Events.Exchange)
	}
	defer publisher.Close()

	events := eventsClient.NewClient(publisher, cfg.EventsTimeout(), log)

	// Репозиторий и transaction manager
	bookingRepository := bookingRepo.NewRepository(wrappedDB, dialect)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем use cases
	sweepRetentionUseCase := sweepRetentionUC.NewUseCase(
		bookingRepository,
		events,
		metricsCollector,
		retentionPolicy,
		location,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		sweepRetentionUseCase,
		txMgr,
		events,
		metricsCollector,
		admissionPolicy,
		location,
		log,
	)

	getCalendarUseCase := getCalendarUC.NewUseCase(
		bookingRepository,
		admissionPolicy,
		location,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		events,
		metricsCollector,
		log,
	)
	calendarSvc := calendarService.NewService(
		bookingRepository,
		admissionPolicy,
		retentionPolicy,
		location,
		log,
	)

	// Проход хранения при старте и фоновый цикл
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()

	if _, err := sweepRetentionUseCase.Execute(sweepCtx); err != nil {
		log.Error("Startup retention sweep failed: %v", err)
	}
	go sweepRetentionUseCase.Run(sweepCtx, cfg.RetentionInterval())
	log.Info("Retention sweep scheduled (policy=%s, interval=%s)", retentionPolicy, cfg.RetentionInterval())

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	lookupBookings := lookupBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getFullyBooked := getFullyBookedHandler.NewHandler(calendarSvc, log)
	getCalendar := getCalendarHandler.NewHandler(getCalendarUseCase, log)
	getPolicy := getPolicyHandler.NewHandler(calendarSvc)
	runRetentionSweep := runRetentionSweepHandler.NewHandler(sweepRetentionUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	adminCancelBooking := adminCancelBookingHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/lookup", lookupBookings.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", cancelBooking.Handle).Methods(http.MethodDelete)

	// --- Календарь ---
	api.HandleFunc("/calendar/fully-booked", getFullyBooked.Handle).Methods(http.MethodGet)
	api.HandleFunc("/calendar/{year:[0-9]+}/{month:[0-9]+}", getCalendar.Handle).Methods(http.MethodGet)
	api.HandleFunc("/policy", getPolicy.Handle).Methods(http.MethodGet)

	// --- Администрирование (X-Admin-Token) ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Token))
	admin.HandleFunc("/retention/sweep", runRetentionSweep.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}", adminCancelBooking.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	stopSweep()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
