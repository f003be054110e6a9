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

	cancelBookingHandler "github.com/akosarev/ABS-SlotService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/akosarev/ABS-SlotService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/akosarev/ABS-SlotService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/akosarev/ABS-SlotService/internal/api/handlers/get_booking"
	getBusinessBookingsHandler "github.com/akosarev/ABS-SlotService/internal/api/handlers/get_business_bookings"
	getScheduleHandler "github.com/akosarev/ABS-SlotService/internal/api/handlers/get_schedule"
	getUserBookingsHandler "github.com/akosarev/ABS-SlotService/internal/api/handlers/get_user_bookings"
	setExceptionHandler "github.com/akosarev/ABS-SlotService/internal/api/handlers/set_exception"
	updateScheduleHandler "github.com/akosarev/ABS-SlotService/internal/api/handlers/update_schedule"
	"github.com/akosarev/ABS-SlotService/internal/api/middleware"
	"github.com/akosarev/ABS-SlotService/internal/config"
	bookingRepo "github.com/akosarev/ABS-SlotService/internal/infra/storage/booking"
	scheduleRepo "github.com/akosarev/ABS-SlotService/internal/infra/storage/schedule"
	serviceRepo "github.com/akosarev/ABS-SlotService/internal/infra/storage/service"
	notifierClient "github.com/akosarev/ABS-SlotService/internal/integrations/notifier"
	bookingsService "github.com/akosarev/ABS-SlotService/internal/service/bookings"
	scheduleService "github.com/akosarev/ABS-SlotService/internal/service/schedule"
	createBookingUC "github.com/akosarev/ABS-SlotService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/akosarev/ABS-SlotService/internal/usecase/get_available_slots"
	"github.com/akosarev/ABS-SlotService/pkg/dbmetrics"
	"github.com/akosarev/ABS-SlotService/pkg/logger"
	"github.com/akosarev/ABS-SlotService/pkg/metrics"
	"github.com/akosarev/ABS-SlotService/pkg/simpletxmanager"
	"github.com/akosarev/ABS-SlotService/pkg/txmanager"
)

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

	log.Info("Starting ABS-SlotService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем клиента сервиса уведомлений (если включен)
	var notifier *notifierClient.Client
	if cfg.Notifier.Enabled {
		notifier = notifierClient.NewClient(
			cfg.Notifier.URL,
			time.Duration(cfg.Notifier.Timeout)*time.Second,
			log,
		)
		log.Info("Notifier client initialized (url=%s, timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.Timeout)
	} else {
		log.Info("Notifier disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		serviceRepository  *serviceRepo.Repository
	)

	// Интерфейс transaction manager для use cases и сервисов
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Интерфейсы notifier допускают nil клиента: уведомления best effort
	var bookingNotifier bookingsService.NotifierClient
	var createNotifier createBookingUC.NotifierClient
	if notifier != nil {
		bookingNotifier = notifier
		createNotifier = notifier
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, bookingNotifier, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, txMgr, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		createNotifier,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		serviceRepository,
		scheduleRepository,
		bookingRepository,
		log,
	)

	// Инициализируем handlers
	slotsPolicy := getAvailableSlotsHandler.Policy{
		GranularityMinutes: cfg.Booking.GranularityMinutes,
		MinAdvanceMinutes:  cfg.Booking.MinAdvanceMinutes,
		MaxDaysInFuture:    cfg.Booking.MaxDaysInFuture,
	}

	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, slotsPolicy, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	setException := setExceptionHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (аутентификация опциональна)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)

	// Доступные слоты: для аутентифицированных запросов дополнительно
	// учитывается дневной лимит пользователя
	public.HandleFunc("/businesses/{businessId}/services/{serviceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Расписание бизнеса
	public.HandleFunc("/businesses/{businessId}/schedule",
		getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (staff-интерфейс) ---
	protected.HandleFunc("/businesses/{businessId}/bookings",
		getBusinessBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/schedule/weekdays/{weekday}",
		updateSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/schedule/exceptions",
		setException.HandleSet).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/schedule/exceptions",
		setException.HandleClear).Methods(http.MethodDelete)

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
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
