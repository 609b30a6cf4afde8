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

	cancelRecurringHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/cancel_recurring_booking"
	createRecurringHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/create_recurring_booking"
	getBookingHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_booking"
	getBookingPolicyHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_booking_policy"
	getGroupBookingsHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_group_bookings"
	getRecurringHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_recurring_booking"
	listRecurringHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/list_recurring_bookings"
	previewRecurringHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/preview_recurring_booking"
	recordPaymentHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/record_group_payment"
	updatePaymentStatusHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/update_booking_payment_status"
	updateBookingPolicyHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/update_booking_policy"
	updateBookingStatusHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/config"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	calendarRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/calendar"
	groupRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/group"
	paymentRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/payment"
	policyRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/policy"
	sequenceRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/sequence"
	venueServiceClient "github.com/m04kA/SMC-CourtBookingService/internal/integrations/venueservice"
	availabilityService "github.com/m04kA/SMC-CourtBookingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
	groupsService "github.com/m04kA/SMC-CourtBookingService/internal/service/groups"
	policyService "github.com/m04kA/SMC-CourtBookingService/internal/service/policy"
	cancelRecurringUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/cancel_recurring_booking"
	createRecurringUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_recurring_booking"
	previewRecurringUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/preview_recurring_booking"
	recordPaymentUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/record_group_payment"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/metrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/mq"
	"github.com/m04kA/SMC-CourtBookingService/pkg/tracing"
	"github.com/m04kA/SMC-CourtBookingService/pkg/txmanager"
)

const serviceVersion = "1.0.0"

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-CourtBookingService...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load venue timezone: %v", err)
	}

	// Трейсинг (если включен)
	if cfg.Tracing.Enabled {
		shutdownTracing, err := tracing.Init(context.Background(), tracing.Config{
			ServiceName:    cfg.Metrics.ServiceName,
			ServiceVersion: serviceVersion,
			Environment:    cfg.Tracing.Environment,
			Endpoint:       cfg.Tracing.Endpoint,
			SampleRatio:    cfg.Tracing.SampleRatio,
		})
		if err != nil {
			log.Fatal("Failed to initialize tracing: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				log.Error("Failed to flush traces: %v", err)
			}
		}()
		log.Info("Tracing enabled (endpoint=%s, ratio=%.2f)", cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
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

	// Без коллектора обертка работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)

	txManager := txmanager.NewTransactionManager(wrappedDB).WithMaxRetries(cfg.Booking.MaxCommitRetries)
	if metricsCollector != nil {
		txManager = txManager.WithRecorder(metricsCollector)
		log.Info("Database metrics collection started")
	}

	// Инициализируем интеграционных клиентов
	venueClient := venueServiceClient.NewClient(
		cfg.VenueService.URL,
		time.Duration(cfg.VenueService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (VenueService=%s timeout=%ds)",
		cfg.VenueService.URL, cfg.VenueService.Timeout)

	// Распределенная блокировка слотов (если включена)
	var slotLocker createRecurringUC.SlotLocker = lock.NopLocker{}
	if cfg.Lock.Enabled {
		redisLock, err := lock.NewRedisLock(
			cfg.Lock.Addr,
			cfg.Lock.Password,
			cfg.Lock.DB,
			time.Duration(cfg.Lock.TTL)*time.Second,
			time.Duration(cfg.Lock.WaitTimeout)*time.Millisecond,
		)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisLock.Close()
		slotLocker = redisLock
		log.Info("Redis slot lock enabled (addr=%s)", cfg.Lock.Addr)
	}

	// Публикация событий (если включена)
	var publisher createRecurringUC.EventPublisher = mq.NopPublisher{}
	if cfg.Events.Enabled {
		rabbit, err := mq.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer rabbit.Close()
		publisher = rabbit
		log.Info("Event publishing enabled (exchange=%s)", cfg.Events.Exchange)
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	groupRepository := groupRepo.NewRepository(wrappedDB)
	calendarRepository := calendarRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)
	sequenceRepository := sequenceRepo.NewRepository(wrappedDB)
	policyRepository := policyRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	policySvc := policyService.NewService(
		policyRepository,
		venueClient,
		domain.BookingPolicy{
			MaxSpanMonths:       cfg.Booking.MaxSpanMonths,
			DurationStepMinutes: cfg.Booking.DurationStepMinutes,
			MaxDurationSteps:    cfg.Booking.MaxDurationSteps,
			AdvanceBookingDays:  cfg.Booking.AdvanceBookingDays,
		},
		log,
	)
	checker := availabilityService.NewChecker(bookingRepository, calendarRepository, log)
	bookingSvc := bookingsService.NewService(bookingRepository, groupRepository, txManager, log)
	groupSvc := groupsService.NewService(groupRepository, bookingRepository, paymentRepository, log)

	// Инициализируем use cases
	previewUseCase := previewRecurringUC.NewUseCase(
		venueClient,
		policySvc,
		checker,
		location,
		log,
	)

	createUseCase := createRecurringUC.NewUseCase(
		groupRepository,
		bookingRepository,
		sequenceRepository,
		venueClient,
		policySvc,
		checker,
		txManager,
		location,
		log,
	).WithLocker(slotLocker).
		WithPublisher(publisher).
		WithCommitTimeout(cfg.Booking.CommitTimeoutDuration())

	cancelUseCase := cancelRecurringUC.NewUseCase(
		groupRepository,
		bookingRepository,
		txManager,
		location,
		log,
	).WithPublisher(publisher)

	recordPaymentUseCase := recordPaymentUC.NewUseCase(
		groupRepository,
		bookingRepository,
		paymentRepository,
		txManager,
		log,
	).WithPublisher(publisher)

	if metricsCollector != nil {
		createUseCase.WithMetrics(metricsCollector)
		cancelUseCase.WithMetrics(metricsCollector)
		recordPaymentUseCase.WithMetrics(metricsCollector)
	}

	// Инициализируем handlers
	previewRecurring := previewRecurringHandler.NewHandler(previewUseCase, log)
	createRecurring := createRecurringHandler.NewHandler(createUseCase, log)
	listRecurring := listRecurringHandler.NewHandler(groupSvc, log)
	getRecurring := getRecurringHandler.NewHandler(groupSvc, log)
	getGroupBookings := getGroupBookingsHandler.NewHandler(groupSvc, log)
	cancelRecurring := cancelRecurringHandler.NewHandler(cancelUseCase, log)
	recordPayment := recordPaymentHandler.NewHandler(recordPaymentUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(bookingSvc, log)
	getBookingPolicy := getBookingPolicyHandler.NewHandler(policySvc, log)
	updateBookingPolicy := updateBookingPolicyHandler.NewHandler(policySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing)
	}

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Предпросмотр регулярного бронирования, ничего не сохраняет
	api.HandleFunc("/recurring-bookings/preview", previewRecurring.Handle).Methods(http.MethodPost)

	// Действующая политика бронирования
	api.HandleFunc("/booking-policy", getBookingPolicy.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Регулярные бронирования ---
	protected.HandleFunc("/recurring-bookings", createRecurring.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/recurring-bookings", listRecurring.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/recurring-bookings/{groupId}", getRecurring.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/recurring-bookings/{groupId}/bookings", getGroupBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/recurring-bookings/{groupId}/cancel", cancelRecurring.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/recurring-bookings/{groupId}/payment", recordPayment.Handle).Methods(http.MethodPatch)

	// --- Отдельные игры ---
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/payment-status", updatePaymentStatus.Handle).Methods(http.MethodPatch)

	// --- Настройки площадки (для менеджеров) ---
	protected.HandleFunc("/booking-policy", updateBookingPolicy.Handle).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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
