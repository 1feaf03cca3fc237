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

	cancelAppointmentHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/cancel_appointment"
	createBookingHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/create_booking"
	getAccountAppointmentsHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/get_account_appointments"
	getAppointmentHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/get_available_slots"
	getCalendarHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/get_calendar"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/update_appointment_status"
	updateCalendarHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/update_calendar"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/config"
	"github.com/m04kA/SMC-BookingEngine/internal/events"
	appointmentRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/appointment"
	blackoutRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/blackout"
	calendarRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/calendar"
	identityServiceClient "github.com/m04kA/SMC-BookingEngine/internal/integrations/identityservice"
	notifierClient "github.com/m04kA/SMC-BookingEngine/internal/integrations/notifier"
	appointmentsService "github.com/m04kA/SMC-BookingEngine/internal/service/appointments"
	"github.com/m04kA/SMC-BookingEngine/internal/service/blackout"
	calendarsService "github.com/m04kA/SMC-BookingEngine/internal/service/calendars"
	"github.com/m04kA/SMC-BookingEngine/internal/service/capacity"
	"github.com/m04kA/SMC-BookingEngine/internal/service/interval"
	"github.com/m04kA/SMC-BookingEngine/internal/service/validation"
	cancelAppointmentUC "github.com/m04kA/SMC-BookingEngine/internal/usecase/cancel_appointment"
	createBookingUC "github.com/m04kA/SMC-BookingEngine/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-BookingEngine/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BookingEngine/pkg/codegen"
	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/metrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/nationalid"
	"github.com/m04kA/SMC-BookingEngine/pkg/txmanager"
)

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

	log.Info("Starting SMC-BookingEngine...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (если включены); nil - без метрик
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	calendarRepository := calendarRepo.NewRepository(wrappedDB, cfg.Booking.Timezone)
	blackoutRepository := blackoutRepo.NewRepository(wrappedDB)

	clock := &createBookingUC.RealTimeProvider{}

	// Проверки записи
	blackoutChecker := blackout.NewChecker(blackoutRepository)
	capacityGate := capacity.NewGate(appointmentRepository)
	intervalLimiter := interval.NewLimiter(appointmentRepository, clock)
	validator := validation.NewValidator(
		blackoutChecker,
		capacityGate,
		intervalLimiter,
		nationalid.CPFValidator{},
		clock,
	)

	codeGenerator, err := codegen.NewGenerator(cfg.Booking.ValidationCodeLength)
	if err != nil {
		log.Fatal("Failed to initialize validation code generator: %v", err)
	}

	// События
	dispatcher := events.NewDispatcher(log)
	dispatcher.Subscribe("logging", events.NewLoggingListener(log))
	if metricsCollector != nil {
		dispatcher.Subscribe("metrics", events.NewMetricsListener(metricsCollector.AppointmentEvents))
	}
	if cfg.Notifier.Enabled {
		dispatcher.Subscribe("notifier", notifierClient.NewClient(cfg.Notifier.URL, cfg.Notifier.TimeoutDuration()))
		log.Info("Notifier webhook enabled (url=%s, timeout=%s)", cfg.Notifier.URL, cfg.Notifier.TimeoutDuration())
	}

	// Use cases
	deps := createBookingUC.Dependencies{
		Appointments: appointmentRepository,
		Calendars:    calendarRepository,
		Validator:    validator,
		Capacity:     capacityGate,
		Interval:     intervalLimiter,
		Locks:        appointmentRepository,
		Codes:        codeGenerator,
		Hasher:       nationalid.NewHasher(cfg.Booking.NationalIDSalt),
		TxManager:    txMgr,
		Publisher:    dispatcher,
		TimeProvider: clock,
		Logger:       log,
	}
	// Необязательные зависимости задаются только когда включены: nil-указатель в интерфейсе не равен nil
	if cfg.IdentityService.Enabled {
		deps.Resolver = identityServiceClient.NewClient(cfg.IdentityService.URL, cfg.IdentityService.TimeoutDuration(), log)
		log.Info("Identity service enabled (url=%s, timeout=%s)", cfg.IdentityService.URL, cfg.IdentityService.TimeoutDuration())
	}
	if metricsCollector != nil {
		deps.Outcomes = metricsCollector.BookingOutcomes
	}

	createBookingUseCase := createBookingUC.NewUseCase(deps, cfg.Booking.MaxCodeAttempts)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		calendarRepository,
		blackoutChecker,
		capacityGate,
		txMgr,
		clock,
		log,
	)
	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(
		appointmentRepository,
		calendarRepository,
		dispatcher,
		clock,
		log,
	)

	// Сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		calendarRepository,
		dispatcher,
		clock,
		log,
	)
	calendarSvc := calendarsService.NewService(calendarRepository, log)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getAccountAppointments := getAccountAppointmentsHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, log)
	updateCalendar := updateCalendarHandler.NewHandler(calendarSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if metricsCollector != nil {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (гость или аутентифицированный пользователь)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)

	// Политика календаря и свободные слоты
	public.HandleFunc("/calendars/{calendarId}", getCalendar.Handle).Methods(http.MethodGet)
	public.HandleFunc("/calendars/{calendarId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание записи (гость - с email и CPF/RF)
	public.HandleFunc("/appointments", createBooking.Handle).Methods(http.MethodPost)

	// Просмотр и отмена (гость - по токену подтверждения)
	public.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	public.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// История записей аккаунта
	protected.HandleFunc("/users/{userId}/appointments", getAccountAppointments.Handle).Methods(http.MethodGet)

	// --- Администрирование ---
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/calendars/{calendarId}", updateCalendar.Handle).Methods(http.MethodPut)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

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
