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
	"github.com/redis/go-redis/v9"

	createReservationHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/create_reservation"
	createShowHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/create_show"
	deleteShowHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/delete_show"
	getCalendarHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/get_calendar"
	getReservationHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/get_reservation"
	getShowHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/get_show"
	getShowReservationsHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/get_show_reservations"
	getUserReservationsHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/get_user_reservations"
	listShowsHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/list_shows"
	quotePriceHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/quote_price"
	reservationActionHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/reservation_action"
	updateReservationStatusHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/update_reservation_status"
	updateShowStatusHandler "github.com/m04kA/SMC-ShowBookingService/internal/api/handlers/update_show_status"
	"github.com/m04kA/SMC-ShowBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShowBookingService/internal/config"
	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	slotsCache "github.com/m04kA/SMC-ShowBookingService/internal/infra/cache/slots"
	catalogRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/catalog"
	promoRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/promo"
	reservationRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/slot"
	authServiceClient "github.com/m04kA/SMC-ShowBookingService/internal/integrations/authservice"
	reservationsService "github.com/m04kA/SMC-ShowBookingService/internal/service/reservations"
	showsService "github.com/m04kA/SMC-ShowBookingService/internal/service/shows"
	createReservationUC "github.com/m04kA/SMC-ShowBookingService/internal/usecase/create_reservation"
	getCalendarUC "github.com/m04kA/SMC-ShowBookingService/internal/usecase/get_calendar"
	quotePriceUC "github.com/m04kA/SMC-ShowBookingService/internal/usecase/quote_price"
	reservationActionUC "github.com/m04kA/SMC-ShowBookingService/internal/usecase/reservation_action"
	"github.com/m04kA/SMC-ShowBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShowBookingService/pkg/logger"
	"github.com/m04kA/SMC-ShowBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ShowBookingService/pkg/txmanager"
)

// SlotCache кэш слотов по месяцам (redis или no-op)
type SlotCache interface {
	GetMonth(ctx context.Context, year int, month time.Month) ([]domain.ShowSlot, bool, error)
	SetMonth(ctx context.Context, year int, month time.Month, slots []domain.ShowSlot) error
	InvalidateDate(ctx context.Context, date time.Time) error
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
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

	log.Info("Starting SMC-ShowBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Booking.Timezone, err)
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

	// Обёртка нужна и без метрик: через неё txmanager передаёт транзакцию в репозитории
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем кэш календаря
	var slotCache SlotCache = slotsCache.NopCache{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unavailable at %s, calendar cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			slotCache = slotsCache.NewCache(redisClient, time.Duration(cfg.Redis.TTL)*time.Second, loc)
			log.Info("Calendar cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
		}
		cancelPing()
	}

	// Инициализируем интеграционных клиентов
	authClient := authServiceClient.NewClient(
		cfg.AuthService.URL,
		time.Duration(cfg.AuthService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (AuthService=%s timeout=%ds)", cfg.AuthService.URL, cfg.AuthService.Timeout)

	// Инициализируем репозитории
	slotRepository := slotRepo.NewRepository(wrappedDB, loc)
	reservationRepository := reservationRepo.NewRepository(wrappedDB, loc)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	promoRepository := promoRepo.NewRepository(wrappedDB)

	// Инициализируем use cases
	getCalendarUseCase := getCalendarUC.NewUseCase(slotRepository, slotCache, loc, log)
	quotePriceUseCase := quotePriceUC.NewUseCase(catalogRepository, promoRepository, log)

	createReservationUseCase := createReservationUC.NewUseCase(
		slotRepository,
		reservationRepository,
		promoRepository,
		quotePriceUseCase,
		slotCache,
		txMgr,
		metricsCollector,
		createReservationUC.Settings{
			CustomerStatus:        cfg.Booking.InitialCustomerStatus(),
			AllowAdminOverbooking: cfg.Booking.AllowAdminOverbooking,
		},
		log,
	)

	reservationActionUseCase := reservationActionUC.NewUseCase(
		reservationRepository,
		slotRepository,
		promoRepository,
		authClient,
		slotCache,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем сервисы
	showSvc := showsService.NewService(
		slotRepository,
		reservationRepository,
		slotCache,
		txMgr,
		loc,
		log,
	)
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		slotRepository,
		promoRepository,
		authClient,
		slotCache,
		txMgr,
		metricsCollector,
		cfg.Booking.AllowAdminOverbooking,
		log,
	)

	// Инициализируем handlers
	getCalendar := getCalendarHandler.NewHandler(getCalendarUseCase, log)
	quotePrice := quotePriceHandler.NewHandler(quotePriceUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, domain.ChannelCustomer, log)
	adminCreateReservation := createReservationHandler.NewHandler(createReservationUseCase, domain.ChannelAdmin, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	reservationAction := reservationActionHandler.NewHandler(reservationActionUseCase, log)
	createShow := createShowHandler.NewHandler(showSvc, log)
	listShows := listShowsHandler.NewHandler(showSvc, log)
	getShow := getShowHandler.NewHandler(showSvc, log)
	updateShowStatus := updateShowStatusHandler.NewHandler(showSvc, log)
	deleteShow := deleteShowHandler.NewHandler(showSvc, log)
	getShowReservations := getShowReservationsHandler.NewHandler(reservationSvc, log)
	updateReservationStatus := updateReservationStatusHandler.NewHandler(reservationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Календарь показов на месяц
	api.HandleFunc("/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// Расчёт стоимости без создания бронирования
	api.HandleFunc("/quotes", quotePrice.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-User-Role: admin)
	// Регистрируются до protected, у которого пустой префикс
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth, middleware.AdminOnly)

	// --- Показы ---
	admin.HandleFunc("/shows", createShow.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/shows", listShows.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/shows/{showId}", getShow.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/shows/{showId}/status", updateShowStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/shows/{showId}", deleteShow.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/shows/{showId}/reservations", getShowReservations.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	admin.HandleFunc("/reservations", adminCreateReservation.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/reservations/{reservationId}/status", updateReservationStatus.Handle).Methods(http.MethodPatch)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования клиента ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/actions", reservationAction.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

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
