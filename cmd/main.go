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

	approvePOHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/approve_purchase_order"
	cancelBookingHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/cancel_booking"
	cancelPOHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/cancel_purchase_order"
	checkAvailabilityHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/check_availability"
	createBookingHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/create_booking"
	generatePOHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/generate_purchase_orders"
	getBookingHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/get_booking"
	getPOHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/get_purchase_order"
	getVenueBookingsHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/get_venue_bookings"
	listPOHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/list_purchase_orders"
	recordTransactionHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/record_transaction"
	updateScheduleHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/update_booking_schedule"
	updateBookingStatusHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/update_booking_status"
	updateTxnStatusHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/update_transaction_status"
	"github.com/m04kA/VenueBookingService/internal/api/middleware"
	"github.com/m04kA/VenueBookingService/internal/config"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	poRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/purchaseorder"
	txnRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/transaction"
	venueServiceClient "github.com/m04kA/VenueBookingService/internal/integrations/venueservice"
	availabilityService "github.com/m04kA/VenueBookingService/internal/service/availability"
	bookingsService "github.com/m04kA/VenueBookingService/internal/service/bookings"
	purchaseOrdersService "github.com/m04kA/VenueBookingService/internal/service/purchaseorders"
	reconcilerService "github.com/m04kA/VenueBookingService/internal/service/reconciler"
	transactionsService "github.com/m04kA/VenueBookingService/internal/service/transactions"
	createBookingUC "github.com/m04kA/VenueBookingService/internal/usecase/create_booking"
	generatePOUC "github.com/m04kA/VenueBookingService/internal/usecase/generate_purchase_orders"
	recordTransactionUC "github.com/m04kA/VenueBookingService/internal/usecase/record_transaction"
	updateScheduleUC "github.com/m04kA/VenueBookingService/internal/usecase/update_booking_schedule"
	"github.com/m04kA/VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/VenueBookingService/pkg/logger"
	"github.com/m04kA/VenueBookingService/pkg/metrics"
	"github.com/m04kA/VenueBookingService/pkg/simpletxmanager"
	"github.com/m04kA/VenueBookingService/pkg/txmanager"
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

	log.Info("Starting VenueBookingService...")
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

	// Инициализируем интеграционного клиента каталога площадок
	venueClient := venueServiceClient.NewClient(
		cfg.VenueService.URL,
		time.Duration(cfg.VenueService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (VenueService=%s timeout=%ds)",
		cfg.VenueService.URL, cfg.VenueService.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		txnRepository     *txnRepo.Repository
		poRepository      *poRepo.Repository
		txMgr             *txmanager.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txnRepository = txnRepo.NewRepository(wrappedDB)
		poRepository = poRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		txnRepository = txnRepo.NewRepository(db)
		poRepository = poRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(bookingRepository, venueClient, log)
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	reconcilerSvc := reconcilerService.NewService(bookingRepository, poRepository, txnRepository, log)
	transactionSvc := transactionsService.NewService(
		txnRepository,
		bookingRepository,
		poRepository,
		reconcilerSvc,
		cfg.Reconciler.SweepBatchSize,
		cfg.Reconciler.SweepConcurrency,
		log,
	)
	purchaseOrderSvc := purchaseOrdersService.NewService(poRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(bookingRepository, venueClient, txMgr, log)
	updateScheduleUseCase := updateScheduleUC.NewUseCase(bookingRepository, txMgr, log)
	recordTransactionUseCase := recordTransactionUC.NewUseCase(transactionSvc, log)
	generatePOUseCase := generatePOUC.NewUseCase(bookingRepository, poRepository, log)

	// Инициализируем handlers
	checkAvailability := checkAvailabilityHandler.NewHandler(availabilitySvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(updateScheduleUseCase, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getVenueBookings := getVenueBookingsHandler.NewHandler(bookingSvc, log)
	recordTransaction := recordTransactionHandler.NewHandler(recordTransactionUseCase, log)
	updateTxnStatus := updateTxnStatusHandler.NewHandler(transactionSvc, log)
	generatePO := generatePOHandler.NewHandler(generatePOUseCase, log)
	listPO := listPOHandler.NewHandler(purchaseOrderSvc, log)
	getPO := getPOHandler.NewHandler(purchaseOrderSvc, log)
	approvePO := approvePOHandler.NewHandler(purchaseOrderSvc, log)
	cancelPO := cancelPOHandler.NewHandler(purchaseOrderSvc, log)

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

	// Проверка доступности интервала площадки
	api.HandleFunc("/venues/{venueId}/availability", checkAvailability.Handle).Methods(http.MethodGet)

	// Бронирования площадки с фильтрами
	api.HandleFunc("/venues/{venueId}/bookings", getVenueBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования и его заказов
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/purchase-orders", listPO.Handle).Methods(http.MethodGet)
	api.HandleFunc("/purchase-orders/{poId}", getPO.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/schedule", updateSchedule.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Леджер транзакций ---
	protected.HandleFunc("/transactions", recordTransaction.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/transactions/{transactionId}/status", updateTxnStatus.Handle).Methods(http.MethodPatch)

	// --- Заказы поставщикам ---
	protected.HandleFunc("/bookings/{bookingId}/purchase-orders", generatePO.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/purchase-orders/{poId}/approve", approvePO.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/purchase-orders/{poId}/cancel", cancelPO.Handle).Methods(http.MethodPatch)

	// Фоновый sweep несверенных транзакций
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runReconcileSweep(sweepCtx, transactionSvc, time.Duration(cfg.Reconciler.SweepInterval)*time.Second, log)

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

	// Останавливаем фоновый sweep
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

// runReconcileSweep периодически повторяет сверку транзакций, у которых
// она не удалась при записи
func runReconcileSweep(ctx context.Context, svc *transactionsService.Service, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Reconcile sweep stopped")
			return
		case <-ticker.C:
			if _, err := svc.ReconcilePending(ctx); err != nil {
				log.Warn("Reconcile sweep: %v", err)
			}
		}
	}
}
